//go:build !linux

package ifwatch

import (
	"github.com/dep2p/go-netready/pkg/interfaces"
)

// NewSystemSource 创建当前平台的系统查询实现
//
// 非 Linux 平台暂无实现。
func NewSystemSource() (interfaces.SystemSource, error) {
	return nil, ErrUnsupportedPlatform
}
