//go:build linux

package connmon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// 路由协作方的系统默认实现：目的路由查询走 RTM_GETROUTE，
// 变更事件来自 RTNLGRP_IPV4_ROUTE/RTNLGRP_IPV6_ROUTE 组播订阅。
// 只实现消费边界，不做任何路由管理。

// netlinkRouteManager 基于 netlink 的路由查询实现
type netlinkRouteManager struct{}

// 确保实现接口
var _ interfaces.RouteManager = (*netlinkRouteManager)(nil)

// NewSystemRouteManager 创建当前平台的路由协作方实现
func NewSystemRouteManager() (interfaces.RouteManager, error) {
	return &netlinkRouteManager{}, nil
}

// HasDestinationRoute 查询是否存在到 dst 的路由
//
// 内核以错误码表达"无路由"，这里翻译为 (false, nil)；
// 其余错误原样上抛。
func (r *netlinkRouteManager) HasDestinationRoute(_ context.Context, dst netip.Addr) (bool, error) {
	routes, err := netlink.RouteGet(net.IP(dst.AsSlice()))
	if err != nil {
		if errors.Is(err, unix.ENETUNREACH) || errors.Is(err, unix.EHOSTUNREACH) || errors.Is(err, unix.ESRCH) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query destination route: %w", err)
	}
	return len(routes) > 0, nil
}

// ChangeListener 返回路由表变更事件通道
//
// 原始 netlink 更新在专属协程中翻译为 RouteUpdate，
// 直到 ctx 取消；通道关闭后序列不可重启。
func (r *netlinkRouteManager) ChangeListener(ctx context.Context) (<-chan interfaces.RouteUpdate, error) {
	raw := make(chan netlink.RouteUpdate, 16)
	done := make(chan struct{})
	if err := netlink.RouteSubscribe(raw, done); err != nil {
		return nil, fmt.Errorf("failed to subscribe to netlink route updates: %w", err)
	}

	out := make(chan interfaces.RouteUpdate, 16)
	go func() {
		defer close(out)
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-raw:
				if !ok {
					return
				}
				ev := interfaces.RouteUpdate{Type: update.Type}
				if update.Dst != nil {
					ev.Dst = prefixFromIPNet(update.Dst)
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// prefixFromIPNet 将 net.IPNet 翻译为 netip.Prefix
func prefixFromIPNet(ipnet *net.IPNet) netip.Prefix {
	addr, ok := netip.AddrFromSlice(ipnet.IP)
	if !ok {
		return netip.Prefix{}
	}
	ones, _ := ipnet.Mask.Size()
	return netip.PrefixFrom(addr.Unmap(), ones)
}
