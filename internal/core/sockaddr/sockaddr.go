package sockaddr

import (
	"encoding/binary"
	"net"
	"net/netip"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// SocketAddress 平台中立的套接字地址
//
// netip.AddrPort 无法承载 IPv6 流标签，因此流标签作为独立字段
// 随地址一起往返，保证转换无损。
type SocketAddress struct {
	// AddrPort 地址与端口；IPv6 作用域以数字 zone 表示
	AddrPort netip.AddrPort

	// FlowInfo IPv6 流标签；IPv4 地址恒为 0
	FlowInfo uint32
}

// RawSockaddrInet 按地址族打标签的原生套接字地址联合体
//
// 不变量：Family 标签始终与活跃载荷一致，只有对应载荷被填充。
type RawSockaddrInet struct {
	// Family 地址族标签（AF_INET 或 AF_INET6）
	Family uint16

	// V4 IPv4 载荷，仅当 Family == AF_INET 时有效
	V4 unix.RawSockaddrInet4

	// V6 IPv6 载荷，仅当 Family == AF_INET6 时有效
	V6 unix.RawSockaddrInet6
}

// Encode 将平台中立地址编码为原生联合体
//
// 对 IPv4 与 IPv6 都是全函数。IPv4-mapped IPv6 地址按其
// 十六组形式编码为 IPv6。
func Encode(sa SocketAddress) RawSockaddrInet {
	addr := sa.AddrPort.Addr()
	if addr.Is4() {
		raw := unix.RawSockaddrInet4{
			Family: unix.AF_INET,
			Port:   portToWire(sa.AddrPort.Port()),
			Addr:   addr.As4(),
		}
		return RawSockaddrInet{Family: unix.AF_INET, V4: raw}
	}

	raw := unix.RawSockaddrInet6{
		Family:   unix.AF_INET6,
		Port:     portToWire(sa.AddrPort.Port()),
		Flowinfo: sa.FlowInfo,
		Addr:     addr.As16(),
		Scope_id: scopeFromZone(addr.Zone()),
	}
	return RawSockaddrInet{Family: unix.AF_INET6, V6: raw}
}

// Decode 将原生联合体解码为平台中立地址
//
// 当且仅当地址族标签不是受支持的两种时返回
// *interfaces.UnknownAddressFamilyError。
func Decode(raw RawSockaddrInet) (SocketAddress, error) {
	switch raw.Family {
	case unix.AF_INET:
		addr := netip.AddrFrom4(raw.V4.Addr)
		return SocketAddress{
			AddrPort: netip.AddrPortFrom(addr, portFromWire(raw.V4.Port)),
		}, nil

	case unix.AF_INET6:
		addr := netip.AddrFrom16(raw.V6.Addr)
		if raw.V6.Scope_id != 0 {
			addr = addr.WithZone(strconv.FormatUint(uint64(raw.V6.Scope_id), 10))
		}
		return SocketAddress{
			AddrPort: netip.AddrPortFrom(addr, portFromWire(raw.V6.Port)),
			FlowInfo: raw.V6.Flowinfo,
		}, nil

	default:
		return SocketAddress{}, &interfaces.UnknownAddressFamilyError{Family: raw.Family}
	}
}

// FamilyFromRaw 将原始 AF_* 标签翻译为地址族
func FamilyFromRaw(family uint16) (interfaces.AddressFamily, error) {
	switch family {
	case unix.AF_INET:
		return interfaces.FamilyIPv4, nil
	case unix.AF_INET6:
		return interfaces.FamilyIPv6, nil
	default:
		return 0, &interfaces.UnknownAddressFamilyError{Family: family}
	}
}

// RawFromFamily 将地址族翻译回原始 AF_* 标签
//
// family 为 nil 时返回 AF_UNSPEC（查询全部地址族）。
func RawFromFamily(family *interfaces.AddressFamily) uint16 {
	if family == nil {
		return unix.AF_UNSPEC
	}
	if *family == interfaces.FamilyIPv6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

// ============================================================================
//                              字节序辅助
// ============================================================================

// portToWire 把主机序端口写入原生结构的网络字节序 Port 字段
//
// 原生结构的 Port 字段承载的是内存中按网络字节序排布的 16 位值，
// 与主机字节序无关，两个方向互为逆运算。
func portToWire(port uint16) uint16 {
	var wire uint16
	b := (*[2]byte)(unsafe.Pointer(&wire))
	binary.BigEndian.PutUint16(b[:], port)
	return wire
}

// portFromWire 从网络字节序 Port 字段读出主机序端口
func portFromWire(wire uint16) uint16 {
	b := (*[2]byte)(unsafe.Pointer(&wire))
	return binary.BigEndian.Uint16(b[:])
}

// scopeFromZone 将 netip 的 zone 翻译为数字作用域标识
//
// 数字 zone 直接解析；接口名 zone 解析为接口序号；解析失败取 0。
func scopeFromZone(zone string) uint32 {
	if zone == "" {
		return 0
	}
	if id, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(id)
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}
	return 0
}
