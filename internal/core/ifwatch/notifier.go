package ifwatch

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-netready/pkg/interfaces"
	"github.com/dep2p/go-netready/pkg/lib/log"
)

var logger = log.Logger("core/ifwatch")

// ============================================================================
//                              变更通知注册
// ============================================================================

// ChangeCallback 接口变更回调
//
// 在注册存活期间可能被随时调用；调用之间由注册句柄的互斥锁串行化。
type ChangeCallback func(ev interfaces.InterfaceChangeEvent)

// NotifierHandle 变更通知注册句柄
//
// 持有回调与订阅的生命周期。Close 同步取消订阅并阻塞到
// 不再可能有任何回调调用为止——这是本子系统的核心生命周期不变量。
type NotifierHandle struct {
	// mu 串行化回调调用；从不跨阻塞点持有
	mu       sync.Mutex
	callback ChangeCallback
	family   *interfaces.AddressFamily

	// poisoned 回调曾经 panic，注册永久停用
	poisoned atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// RegisterAddressChanges 注册地址变更回调
//
// family 非 nil 时只投递该地址族的事件。注册成功后回调可能
// 立即开始被调用；订阅失败返回操作系统错误。
func RegisterAddressChanges(source interfaces.SystemSource, callback ChangeCallback, family *interfaces.AddressFamily) (*NotifierHandle, error) {
	h := &NotifierHandle{
		callback: callback,
		family:   family,
		done:     make(chan struct{}),
	}

	updates := make(chan interfaces.InterfaceChangeEvent, DefaultConfig().EventBuffer)
	if err := source.SubscribeAddresses(updates, h.done); err != nil {
		return nil, err
	}

	h.wg.Add(1)
	go h.dispatch(updates)

	return h, nil
}

// Close 取消注册
//
// 幂等。关闭订阅并等待分发协程退出；返回后不再可能有回调调用，
// 依赖回调捕获状态的内存此后才可以安全释放。
func (h *NotifierHandle) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	h.wg.Wait()
}

// dispatch 分发循环
//
// 从订阅通道读取事件并投递给回调，直到注册被取消。
func (h *NotifierHandle) dispatch(updates <-chan interfaces.InterfaceChangeEvent) {
	defer h.wg.Done()

	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-updates:
			if !ok {
				return
			}
			h.deliver(ev)
		}
	}
}

// deliver 投递单个事件
//
// 回调 panic 会被捕获并使注册永久停用，之后不再尝试任何投递。
func (h *NotifierHandle) deliver(ev interfaces.InterfaceChangeEvent) {
	if h.poisoned.Load() {
		return
	}
	if h.family != nil && ev.Family != *h.family {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			h.poisoned.Store(true)
			logger.Error("变更回调 panic，注册永久停用",
				"interface", ev.Interface,
				"kind", ev.Kind.String(),
				"panic", r)
		}
	}()

	h.callback(ev)
}
