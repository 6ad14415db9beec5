package ifwatch

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("ifwatch",
		fx.Provide(ProvideSystemSource),
		fx.Provide(ProvideReadiness),
	)
}

// ProvideSystemSource 提供平台系统查询实现
func ProvideSystemSource() (interfaces.SystemSource, error) {
	return NewSystemSource()
}

// readinessParams 就绪检查器依赖参数
type readinessParams struct {
	fx.In

	Source interfaces.SystemSource
	Config *Config `optional:"true"`
}

// ProvideReadiness 提供接口就绪检查器
func ProvideReadiness(params readinessParams) interfaces.DeviceReadiness {
	return NewReadiness(params.Source, params.Config)
}
