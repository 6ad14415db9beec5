package connmon

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("connmon",
		fx.Provide(ProvideMonitor),
		fx.Invoke(registerLifecycle),
	)
}

// monitorParams 监控器依赖参数
type monitorParams struct {
	fx.In

	Routes interfaces.RouteManager
	Sender *CommandSender
	Config *Config `optional:"true"`
}

// ProvideMonitor 提供连通性监控器
func ProvideMonitor(params monitorParams) interfaces.ConnectivityMonitor {
	return NewMonitor(params.Routes, params.Sender, params.Config)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Monitor interfaces.ConnectivityMonitor
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Monitor.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Monitor.Stop()
		},
	})
}
