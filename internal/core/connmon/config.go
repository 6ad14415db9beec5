package connmon

import "net/netip"

// ============================================================================
//                              监控配置
// ============================================================================

// defaultReferenceAddress 默认参考地址
//
// 一个稳定的全球可路由地址，只用作可达性探针；
// 任何公网地址都可以。
var defaultReferenceAddress = netip.AddrFrom4([4]byte{193, 138, 218, 78})

// Config 连通性监控配置
type Config struct {
	// ReferenceAddress 可达性探测的参考地址
	// 默认值: 193.138.218.78
	ReferenceAddress netip.Addr
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		ReferenceAddress: defaultReferenceAddress,
	}
}

// Validate 验证配置
//
// 只修正无效值，永远返回 nil。
func (c *Config) Validate() error {
	if !c.ReferenceAddress.IsValid() {
		c.ReferenceAddress = defaultReferenceAddress
	}
	return nil
}
