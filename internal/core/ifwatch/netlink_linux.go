//go:build linux

package ifwatch

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// 使用 netlink 实现系统查询边界：
// 单播地址表来自 RTM_GETADDR 全量转储，变更通知来自
// RTNLGRP_IPV4_IFADDR/RTNLGRP_IPV6_IFADDR 组播订阅。

// netlinkSource 基于 netlink 的系统查询实现
type netlinkSource struct{}

// 确保实现接口
var _ interfaces.SystemSource = (*netlinkSource)(nil)

// NewSystemSource 创建当前平台的系统查询实现
func NewSystemSource() (interfaces.SystemSource, error) {
	return &netlinkSource{}, nil
}

// InterfaceIndex 将接口名翻译为稳定数字标识
func (s *netlinkSource) InterfaceIndex(name string) (int, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return 0, fmt.Errorf("cannot find index for interface %q: %w", name, err)
	}
	return link.Attrs().Index, nil
}

// UnicastAddresses 查询单播地址表
//
// family 为 nil 时转储全部地址族。
func (s *netlinkSource) UnicastAddresses(family *interfaces.AddressFamily) ([]interfaces.UnicastAddressEntry, error) {
	fam := netlink.FAMILY_ALL
	if family != nil {
		if *family == interfaces.FamilyIPv6 {
			fam = netlink.FAMILY_V6
		} else {
			fam = netlink.FAMILY_V4
		}
	}

	addrs, err := netlink.AddrList(nil, fam)
	if err != nil {
		return nil, err
	}

	entries := make([]interfaces.UnicastAddressEntry, 0, len(addrs))
	for _, addr := range addrs {
		entries = append(entries, interfaces.UnicastAddressEntry{
			Interface: addr.LinkIndex,
			Family:    familyOfIP(addr.IP),
			Dad:       dadStateFromFlags(addr.Flags),
			Raw:       uint32(addr.Flags),
		})
	}
	return entries, nil
}

// SubscribeAddresses 订阅地址变更通知
//
// 原始 netlink 更新在专属协程中翻译为 InterfaceChangeEvent，
// 直到 done 关闭。
func (s *netlinkSource) SubscribeAddresses(ch chan<- interfaces.InterfaceChangeEvent, done <-chan struct{}) error {
	raw := make(chan netlink.AddrUpdate, cap(ch))
	if err := netlink.AddrSubscribe(raw, done); err != nil {
		return fmt.Errorf("failed to subscribe to netlink address updates: %w", err)
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case update, ok := <-raw:
				if !ok {
					return
				}
				kind := interfaces.ChangeRemoved
				if update.NewAddr {
					kind = interfaces.ChangeAdded
				}
				ev := interfaces.InterfaceChangeEvent{
					Interface: update.LinkIndex,
					Family:    familyOfIP(update.LinkAddress.IP),
					Kind:      kind,
				}
				select {
				case ch <- ev:
				case <-done:
					return
				}
			}
		}
	}()

	return nil
}

// dadStateFromFlags 把内核 IFA_F_* 标志映射为 DAD 状态
//
// optimistic DAD 的地址仍在检测中，按 tentative 处理。
func dadStateFromFlags(flags int) interfaces.DadState {
	switch {
	case flags&unix.IFA_F_DADFAILED != 0:
		return interfaces.DadStateDuplicate
	case flags&unix.IFA_F_DEPRECATED != 0:
		return interfaces.DadStateDeprecated
	case flags&(unix.IFA_F_TENTATIVE|unix.IFA_F_OPTIMISTIC) != 0:
		return interfaces.DadStateTentative
	default:
		return interfaces.DadStatePreferred
	}
}

// familyOfIP 判定 IP 的地址族
func familyOfIP(ip net.IP) interfaces.AddressFamily {
	if ip.To4() != nil {
		return interfaces.FamilyIPv4
	}
	return interfaces.FamilyIPv6
}
