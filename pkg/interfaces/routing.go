package interfaces

// 本文件定义路由协作方接口。路由表管理本身在本仓库范围之外，
// 这里只描述连通性监控所消费的边界。

import (
	"context"
	"net/netip"
)

// RouteUpdate 路由表变更事件
//
// 载荷仅用于日志；正确性不依赖事件内容——每次事件都会触发
// 一次完整的可达性重算。
type RouteUpdate struct {
	// Type 操作系统的原始消息类型（如 RTM_NEWROUTE）
	Type uint16

	// Dst 变更涉及的目的前缀（可能为零值）
	Dst netip.Prefix
}

// RouteManager 路由协作方
//
// 提供目的路由查询和一个惰性、无限、不可重启的路由变更事件序列。
type RouteManager interface {
	// HasDestinationRoute 查询是否存在到 dst 的路由
	HasDestinationRoute(ctx context.Context, dst netip.Addr) (bool, error)

	// ChangeListener 返回路由表变更事件通道
	// 序列结束（通道关闭）后不可重启。
	ChangeListener(ctx context.Context) (<-chan RouteUpdate, error)
}
