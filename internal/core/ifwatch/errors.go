package ifwatch

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// 就绪检查错误定义
var (
	// ErrObtainUnicastAddress 查询单播地址表失败
	// 总是包装底层的操作系统错误。
	ErrObtainUnicastAddress = errors.New("failed to obtain unicast IP address table")

	// ErrNoUnicastAddress 目标接口在单播地址表中没有任何地址
	ErrNoUnicastAddress = errors.New("found no addresses for the given interface")

	// ErrDeviceReadyTimeout 等待设备就绪超时
	ErrDeviceReadyTimeout = errors.New("timed out waiting on tunnel device")

	// ErrSenderDropped 地址检查结果通道被意外放弃
	ErrSenderDropped = errors.New("address check sender was unexpectedly dropped")

	// ErrUnsupportedPlatform 当前平台没有可用的系统查询实现
	ErrUnsupportedPlatform = errors.New("no system source available on this platform")
)

// DadStateError 单播地址处于非预期的 DAD 状态
//
// 只由终态失败状态产生；Tentative 走重试路径，不会出现在这里。
type DadStateError struct {
	// State 观察到的 DAD 状态
	State interfaces.DadState

	// Raw 操作系统返回的原始状态码
	// 在 State 为 DadStateUnknown 时用于诊断
	Raw uint32
}

// Error 实现 error 接口
func (e *DadStateError) Error() string {
	if e.State == interfaces.DadStateUnknown {
		return fmt.Sprintf("unexpected DAD state: unknown (raw code %d)", e.Raw)
	}
	return fmt.Sprintf("unexpected DAD state: %s", e.State)
}
