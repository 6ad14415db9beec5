// Package interfaces 定义 go-netready 公共接口
//
// 本文件定义网络接口就绪检查相关的类型与接口：
// 地址族、DAD 状态、接口变更事件、单播地址表查询边界，
// 以及隧道建立流程消费的设备就绪接口。
package interfaces

import (
	"context"
	"fmt"
)

// ============================================================================
//                              地址族
// ============================================================================

// AddressFamily 地址族
type AddressFamily int

const (
	// FamilyIPv4 IPv4 地址族
	FamilyIPv4 AddressFamily = iota

	// FamilyIPv6 IPv6 地址族
	FamilyIPv6
)

// String 返回地址族的可读名称
func (f AddressFamily) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4 (AF_INET)"
	case FamilyIPv6:
		return "IPv6 (AF_INET6)"
	default:
		return fmt.Sprintf("AddressFamily(%d)", int(f))
	}
}

// UnknownAddressFamilyError 未知地址族标签
//
// 携带原始 AF_* 标签值，便于诊断不支持的平台响应。
type UnknownAddressFamilyError struct {
	// Family 原始地址族标签
	Family uint16
}

// Error 实现 error 接口
func (e *UnknownAddressFamilyError) Error() string {
	return fmt.Sprintf("unknown address family: %d", e.Family)
}

// ============================================================================
//                              DAD 状态
// ============================================================================

// DadState 重复地址检测（DAD）状态
//
// 只有 Preferred 是终态成功；Duplicate/Deprecated/Invalid 是终态失败；
// Tentative 是瞬态；Unknown 视为失败但保留原始码用于诊断。
type DadState uint32

const (
	// DadStateInvalid 地址不可用
	DadStateInvalid DadState = iota

	// DadStateTentative 检测进行中，尚不可用
	DadStateTentative

	// DadStateDuplicate 检测到重复地址
	DadStateDuplicate

	// DadStateDeprecated 地址已弃用
	DadStateDeprecated

	// DadStatePreferred 地址可用
	DadStatePreferred

	// DadStateUnknown 平台返回了无法识别的状态
	// 原始码由 UnicastAddressEntry.Raw 保留
	DadStateUnknown
)

// String 返回 DAD 状态的可读名称
func (s DadState) String() string {
	switch s {
	case DadStateInvalid:
		return "invalid"
	case DadStateTentative:
		return "tentative"
	case DadStateDuplicate:
		return "duplicate"
	case DadStateDeprecated:
		return "deprecated"
	case DadStatePreferred:
		return "preferred"
	default:
		return "unknown"
	}
}

// IsReady 地址是否已通过检测、可以使用
func (s DadState) IsReady() bool {
	return s == DadStatePreferred
}

// IsTransient 状态是否为瞬态（稍后重查可能变化）
func (s DadState) IsTransient() bool {
	return s == DadStateTentative
}

// IsTerminalFailure 状态是否为终态失败（重试不可能成功）
func (s DadState) IsTerminalFailure() bool {
	switch s {
	case DadStateInvalid, DadStateDuplicate, DadStateDeprecated, DadStateUnknown:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              接口变更事件
// ============================================================================

// ChangeKind 接口变更事件类型
type ChangeKind int

const (
	// ChangeAdded 接口上出现了新地址
	ChangeAdded ChangeKind = iota

	// ChangeRemoved 地址被移除
	ChangeRemoved

	// ChangeParameter 接口参数变更
	ChangeParameter

	// ChangeOther 其他变更
	ChangeOther
)

// String 返回事件类型的可读名称
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeParameter:
		return "parameter"
	default:
		return "other"
	}
}

// InterfaceChangeEvent 接口变更事件
//
// 仅在通知注册存活期间产生。
type InterfaceChangeEvent struct {
	// Interface 接口的稳定数字标识
	Interface int

	// Family 变更涉及的地址族
	Family AddressFamily

	// Kind 变更类型
	Kind ChangeKind
}

// UnicastAddressEntry 单播地址表条目
type UnicastAddressEntry struct {
	// Interface 地址所属接口的稳定数字标识
	Interface int

	// Family 地址族
	Family AddressFamily

	// Dad 当前 DAD 状态
	Dad DadState

	// Raw 操作系统返回的原始状态码
	// 在 Dad 为 DadStateUnknown 时用于诊断
	Raw uint32
}

// ============================================================================
//                              操作系统查询边界
// ============================================================================

// SystemSource 操作系统网络查询与通知边界
//
// Linux 上由 netlink 实现；测试中由假实现替代。
// 除本接口外，任何组件都不应直接触碰操作系统原语。
type SystemSource interface {
	// InterfaceIndex 将人类可读接口名翻译为稳定数字标识
	InterfaceIndex(name string) (int, error)

	// UnicastAddresses 查询单播地址表
	// family 为 nil 时返回全部地址族的条目
	UnicastAddresses(family *AddressFamily) ([]UnicastAddressEntry, error)

	// SubscribeAddresses 订阅地址变更通知
	// 事件持续投递到 ch，直到 done 关闭；订阅失败返回操作系统错误。
	SubscribeAddresses(ch chan<- InterfaceChangeEvent, done <-chan struct{}) error
}

// ============================================================================
//                              隧道侧接口
// ============================================================================

// TunnelCommand 发往隧道状态机命令通道的事件
//
// 每次离线状态翻转至多发送一次。
type TunnelCommand struct {
	// IsOffline true 表示主机被认为离线
	IsOffline bool
}

// ConnectivityMonitor 连通性监控器接口
//
// 维护主机是否离线的尽力而为判断。
type ConnectivityMonitor interface {
	// IsOffline 即时计算当前是否离线
	// 对调用方永不失败：测量失败时记录日志并返回 false（在线）。
	IsOffline(ctx context.Context) bool

	// Start 启动监控器
	// 同步计算初始状态；路由协作方错误会使启动失败。
	Start(ctx context.Context) error

	// Stop 停止监控器
	Stop() error
}

// DeviceReadiness 设备就绪检查接口
//
// 隧道建立流程在宣告接口可用前依次等待地址族出现与地址通过 DAD。
type DeviceReadiness interface {
	// WaitForInterfaces 等待接口首次获得所请求地址族的地址
	// 无内部超时，由调用方通过 ctx 取消。
	WaitForInterfaces(ctx context.Context, ifindex int, wantIPv4, wantIPv6 bool) error

	// WaitForAddresses 等待接口上全部单播地址通过 DAD
	WaitForAddresses(ctx context.Context, ifindex int) error
}
