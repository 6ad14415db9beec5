package connmon

import (
	"context"
	"fmt"
	"sync"

	"github.com/dep2p/go-netready/pkg/interfaces"
	"github.com/dep2p/go-netready/pkg/lib/log"
	"github.com/dep2p/go-netready/pkg/lib/weakref"
)

var logger = log.Logger("core/connmon")

// ============================================================================
//                              Monitor
// ============================================================================

// CommandSender 隧道命令通道的弱引用别名
type CommandSender = weakref.Weak[chan<- interfaces.TunnelCommand]

// Monitor 连通性监控器
//
// 持有路由协作方引用与最近一次的离线判断；判断只由事件循环改写，
// 按需查询路径从不改写它。下游发送端仅被弱持有。
type Monitor struct {
	mu     sync.Mutex
	cfg    *Config
	routes interfaces.RouteManager
	sender *CommandSender

	// lastOffline 最近一次的离线判断；true 表示离线
	lastOffline bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// 确保实现接口
var _ interfaces.ConnectivityMonitor = (*Monitor)(nil)

// NewMonitor 创建连通性监控器
func NewMonitor(routes interfaces.RouteManager, sender *CommandSender, cfg *Config) *Monitor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()

	return &Monitor{
		cfg:    cfg,
		routes: routes,
		sender: sender,
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动监控器
//
// 同步计算初始离线状态并获取路由变更监听；
// 这一步的路由协作方错误会向调用方传播，启动失败。
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return nil // 已启动
	}
	m.mu.Unlock()

	offline, err := m.referenceUnreachable(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute initial offline state: %w", err)
	}

	// 循环与监听的生命周期独立于启动用的 ctx（后者可能带启动时限）
	loopCtx, cancel := context.WithCancel(context.Background())

	updates, err := m.routes.ChangeListener(loopCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to obtain route change listener: %w", err)
	}

	m.mu.Lock()
	m.lastOffline = offline
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.loop(loopCtx, updates)

	logger.Info("连通性监控器已启动",
		"reference", m.cfg.ReferenceAddress.String(),
		"offline", offline)
	return nil
}

// Stop 停止监控器
func (m *Monitor) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	logger.Info("连通性监控器已停止")
	return nil
}

// ============================================================================
//                              状态查询
// ============================================================================

// IsOffline 即时计算当前是否离线
//
// 独立于事件循环的存储状态，从不改写它；
// 测量失败时记录日志并返回 false（在线），对调用方永不失败。
func (m *Monitor) IsOffline(ctx context.Context) bool {
	offline, err := m.referenceUnreachable(ctx)
	if err != nil {
		logger.Error("无法确认离线状态，假定在线", "err", err)
		return false
	}
	return offline
}

// ============================================================================
//                              事件循环
// ============================================================================

// loop 监控循环
//
// 对每个路由表变更事件重算可达性；判断翻转时向下游发送
// 恰好一个转换事件；下游发送端无法升级时永久退出。
func (m *Monitor) loop(ctx context.Context, updates <-chan interfaces.RouteUpdate) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				// 路由变更序列结束且不可重启
				logger.Warn("路由变更监听已结束，连通性监控循环退出")
				return
			}

			strong, ok := m.sender.Upgrade()
			if !ok {
				logger.Debug("下游消费者已消失，连通性监控循环退出")
				return
			}

			offline := m.recomputeOffline(ctx)
			m.mu.Lock()
			changed := offline != m.lastOffline
			if changed {
				m.lastOffline = offline
			}
			m.mu.Unlock()

			if changed {
				logger.Info("离线状态翻转", "offline", offline)
				select {
				case strong.Get() <- interfaces.TunnelCommand{IsOffline: offline}:
				case <-ctx.Done():
					strong.Release()
					return
				}
			}
			strong.Release()
		}
	}
}

// recomputeOffline 重算离线状态
//
// 测量失败偏向在线：避免瞬时失败触发虚假断连。
func (m *Monitor) recomputeOffline(ctx context.Context) bool {
	offline, err := m.referenceUnreachable(ctx)
	if err != nil {
		logger.Error("无法推断离线状态，假定在线", "err", err)
		return false
	}
	return offline
}

// referenceUnreachable 探测参考地址是否不可达
func (m *Monitor) referenceUnreachable(ctx context.Context) (bool, error) {
	reachable, err := m.routes.HasDestinationRoute(ctx, m.cfg.ReferenceAddress)
	if err != nil {
		return false, err
	}
	return !reachable, nil
}
