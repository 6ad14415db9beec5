package ifwatch

import "time"

// ============================================================================
//                              就绪检查配置
// ============================================================================

// Config 接口就绪检查配置
type Config struct {
	// DadTimeout 等待全部地址通过 DAD 的总时限
	// 默认值: 5s
	DadTimeout time.Duration

	// DadInterval 两轮 DAD 状态查询之间的间隔
	// 默认值: 100ms
	DadInterval time.Duration

	// EventBuffer 变更通知通道的缓冲大小
	// 默认值: 16
	EventBuffer int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DadTimeout:  5 * time.Second,
		DadInterval: 100 * time.Millisecond,
		EventBuffer: 16,
	}
}

// Validate 验证配置
//
// 只修正无效值，永远返回 nil。
func (c *Config) Validate() error {
	if c.DadTimeout <= 0 {
		c.DadTimeout = 5 * time.Second
	}
	if c.DadInterval <= 0 {
		c.DadInterval = 100 * time.Millisecond
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 16
	}
	return nil
}
