package netready

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-netready/internal/core/connmon"
	"github.com/dep2p/go-netready/internal/core/ifwatch"
	"github.com/dep2p/go-netready/pkg/interfaces"
	"github.com/dep2p/go-netready/pkg/lib/weakref"
)

// ════════════════════════════════════════════════════════════════════════════
//                              选项
// ════════════════════════════════════════════════════════════════════════════

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 命令通道（必填）
	commands chan<- interfaces.TunnelCommand

	// 协作方注入（为空时使用系统实现）
	routes interfaces.RouteManager
	source interfaces.SystemSource

	// 子系统配置
	connCfg  *connmon.Config
	watchCfg *ifwatch.Config
}

// WithCommandChannel 设置隧道命令接收通道
//
// 监控器对通道持弱引用，System 代表消费方持有强引用，
// Stop 时释放。通道由调用方创建并负责消费。
func WithCommandChannel(ch chan<- interfaces.TunnelCommand) Option {
	return func(o *options) error {
		if ch == nil {
			return errors.New("command channel must not be nil")
		}
		o.commands = ch
		return nil
	}
}

// WithRouteManager 注入自定义路由协作方实现
func WithRouteManager(routes interfaces.RouteManager) Option {
	return func(o *options) error {
		if routes == nil {
			return errors.New("route manager must not be nil")
		}
		o.routes = routes
		return nil
	}
}

// WithSystemSource 注入自定义系统查询实现
func WithSystemSource(source interfaces.SystemSource) Option {
	return func(o *options) error {
		if source == nil {
			return errors.New("system source must not be nil")
		}
		o.source = source
		return nil
	}
}

// WithConnectivityConfig 设置连通性监控配置
func WithConnectivityConfig(cfg *connmon.Config) Option {
	return func(o *options) error {
		o.connCfg = cfg
		return nil
	}
}

// WithReadinessConfig 设置接口就绪检查配置
func WithReadinessConfig(cfg *ifwatch.Config) Option {
	return func(o *options) error {
		o.watchCfg = cfg
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              System
// ════════════════════════════════════════════════════════════════════════════

// System 聚合网络监控子系统的所有组件
//
// 通过 Fx 组装连通性监控与接口就绪检查，
// Start/Stop 驱动整个生命周期。
type System struct {
	app    *fx.App
	strong *weakref.Strong[chan<- interfaces.TunnelCommand]

	// Monitor 连通性监控器
	Monitor interfaces.ConnectivityMonitor

	// Readiness 接口就绪检查器
	Readiness interfaces.DeviceReadiness
}

// New 创建网络监控子系统
//
// 必须通过 WithCommandChannel 提供命令通道，
// 其余协作方默认使用当前平台的系统实现。
func New(opts ...Option) (*System, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.commands == nil {
		return nil, errors.New("command channel is required, use WithCommandChannel")
	}

	strong, weak := weakref.New(o.commands)
	sys := &System{strong: strong}

	fxOpts := []fx.Option{
		fx.NopLogger,
		fx.Provide(func() *weakref.Weak[chan<- interfaces.TunnelCommand] { return weak }),
		fx.Provide(connmon.ProvideMonitor),
		fx.Provide(ifwatch.ProvideReadiness),
		fx.Invoke(func(lc fx.Lifecycle, m interfaces.ConnectivityMonitor) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error { return m.Start(ctx) },
				OnStop:  func(context.Context) error { return m.Stop() },
			})
		}),
		fx.Populate(&sys.Monitor, &sys.Readiness),
	}

	if o.routes != nil {
		fxOpts = append(fxOpts, fx.Provide(func() interfaces.RouteManager { return o.routes }))
	} else {
		fxOpts = append(fxOpts, fx.Provide(NewSystemRouteManager))
	}
	if o.source != nil {
		fxOpts = append(fxOpts, fx.Provide(func() interfaces.SystemSource { return o.source }))
	} else {
		fxOpts = append(fxOpts, fx.Provide(ifwatch.ProvideSystemSource))
	}
	if o.connCfg != nil {
		fxOpts = append(fxOpts, fx.Supply(o.connCfg))
	}
	if o.watchCfg != nil {
		fxOpts = append(fxOpts, fx.Supply(o.watchCfg))
	}

	app := fx.New(fxOpts...)
	if err := app.Err(); err != nil {
		strong.Release()
		return nil, fmt.Errorf("failed to assemble subsystem: %w", err)
	}
	sys.app = app
	return sys, nil
}

// Start 启动子系统
//
// 对参考地址做首次可达性探测，失败则启动失败。
func (s *System) Start(ctx context.Context) error {
	return s.app.Start(ctx)
}

// Stop 停止子系统并释放命令通道引用
//
// 返回后监控器不再发送任何命令。
func (s *System) Stop(ctx context.Context) error {
	err := s.app.Stop(ctx)
	s.strong.Release()
	return err
}

// NewSystemRouteManager 创建当前平台的路由协作方实现
func NewSystemRouteManager() (interfaces.RouteManager, error) {
	return connmon.NewSystemRouteManager()
}
