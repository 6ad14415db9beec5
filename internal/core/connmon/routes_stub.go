//go:build !linux

package connmon

import (
	"errors"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// ErrUnsupportedPlatform 当前平台没有系统路由协作方实现
var ErrUnsupportedPlatform = errors.New("system route manager is not supported on this platform")

// NewSystemRouteManager 创建当前平台的路由协作方实现
func NewSystemRouteManager() (interfaces.RouteManager, error) {
	return nil, ErrUnsupportedPlatform
}
