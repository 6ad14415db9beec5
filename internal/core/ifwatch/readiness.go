package ifwatch

import (
	"context"
	"fmt"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// ============================================================================
//                              DAD 就绪等待
// ============================================================================

// WaitForAddresses 等待接口上全部单播地址通过 DAD
//
// 前置条件：单播地址表中必须已有该接口的地址，否则立即返回
// ErrNoUnicastAddress，不做任何轮询。
//
// 轮询循环执行阻塞的操作系统查询，运行在专属 goroutine 上，
// 单个结果经一次性信号通道送回；通道被无值关闭时返回
// ErrSenderDropped，而不是永远挂起。
func (r *Readiness) WaitForAddresses(ctx context.Context, ifindex int) error {
	candidates, err := r.listInterfaceAddresses(ifindex)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoUnicastAddress
	}

	result := make(chan error, 1)
	go func() {
		defer close(result)
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("地址检查工作协程异常退出", "panic", rec)
			}
		}()
		result <- r.pollUntilReady(ifindex)
	}()

	select {
	case err, ok := <-result:
		if !ok {
			return ErrSenderDropped
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollUntilReady 轮询 DAD 状态直到全部地址可用或失败
//
// 每轮重新查询地址的实时状态：
// 终态失败（duplicate/deprecated/invalid/unknown）立即失败，不再重试；
// 仍有 tentative 则等待一个轮询间隔后重试；超过时限返回超时。
func (r *Readiness) pollUntilReady(ifindex int) error {
	deadline := r.clk.Now().Add(r.cfg.DadTimeout)
	for r.clk.Now().Before(deadline) {
		entries, err := r.listInterfaceAddresses(ifindex)
		if err != nil {
			return err
		}

		ready := len(entries) > 0
		for _, entry := range entries {
			if entry.Dad.IsTransient() {
				ready = false
				break
			}
			if !entry.Dad.IsReady() {
				return &DadStateError{State: entry.Dad, Raw: entry.Raw}
			}
		}
		if ready {
			return nil
		}

		r.clk.Sleep(r.cfg.DadInterval)
	}

	return ErrDeviceReadyTimeout
}

// listInterfaceAddresses 查询目标接口的单播地址
func (r *Readiness) listInterfaceAddresses(ifindex int) ([]interfaces.UnicastAddressEntry, error) {
	entries, err := r.source.UnicastAddresses(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrObtainUnicastAddress, err)
	}

	var out []interfaces.UnicastAddressEntry
	for _, entry := range entries {
		if entry.Interface == ifindex {
			out = append(out, entry)
		}
	}
	return out, nil
}
