package ifwatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// collector 线程安全的事件收集器
type collector struct {
	mu     sync.Mutex
	events []interfaces.InterfaceChangeEvent
}

func (c *collector) callback(ev interfaces.InterfaceChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *collector) waitLen(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.len() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("collector did not reach %d events (got %d)", n, c.len())
}

// TestNotifier_Delivers 测试注册存活期间事件被投递
func TestNotifier_Delivers(t *testing.T) {
	source := newFakeSource()
	var got collector

	handle, err := RegisterAddressChanges(source, got.callback, nil)
	require.NoError(t, err)
	defer handle.Close()

	source.emit(interfaces.InterfaceChangeEvent{Interface: 3, Family: interfaces.FamilyIPv4, Kind: interfaces.ChangeAdded})
	source.emit(interfaces.InterfaceChangeEvent{Interface: 3, Family: interfaces.FamilyIPv6, Kind: interfaces.ChangeRemoved})

	got.waitLen(t, 2)
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, interfaces.ChangeAdded, got.events[0].Kind)
	assert.Equal(t, interfaces.ChangeRemoved, got.events[1].Kind)
}

// TestNotifier_NoCallbackAfterClose 测试取消后不再有任何回调
func TestNotifier_NoCallbackAfterClose(t *testing.T) {
	source := newFakeSource()
	var got collector

	handle, err := RegisterAddressChanges(source, got.callback, nil)
	require.NoError(t, err)

	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Kind: interfaces.ChangeAdded})
	got.waitLen(t, 1)

	// Close 返回后投递通道已死：done 已关闭，emit 不会送达
	handle.Close()
	before := got.len()

	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Kind: interfaces.ChangeAdded})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, got.len())
}

// TestNotifier_Close_Idempotent 测试重复 Close 是空操作
func TestNotifier_Close_Idempotent(t *testing.T) {
	source := newFakeSource()

	handle, err := RegisterAddressChanges(source, func(interfaces.InterfaceChangeEvent) {}, nil)
	require.NoError(t, err)

	handle.Close()
	handle.Close()
}

// TestNotifier_FamilyFilter 测试地址族过滤
func TestNotifier_FamilyFilter(t *testing.T) {
	source := newFakeSource()
	var got collector

	v6 := interfaces.FamilyIPv6
	handle, err := RegisterAddressChanges(source, got.callback, &v6)
	require.NoError(t, err)
	defer handle.Close()

	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Family: interfaces.FamilyIPv4, Kind: interfaces.ChangeAdded})
	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Family: interfaces.FamilyIPv6, Kind: interfaces.ChangeAdded})

	got.waitLen(t, 1)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, got.len())

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, interfaces.FamilyIPv6, got.events[0].Family)
}

// TestNotifier_PanicPoisonsRegistration 测试回调 panic 后注册永久停用
func TestNotifier_PanicPoisonsRegistration(t *testing.T) {
	source := newFakeSource()
	var got collector
	calls := 0

	handle, err := RegisterAddressChanges(source, func(ev interfaces.InterfaceChangeEvent) {
		calls++
		if calls == 1 {
			panic("callback failure")
		}
		got.callback(ev)
	}, nil)
	require.NoError(t, err)
	defer handle.Close()

	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Kind: interfaces.ChangeAdded})
	source.emit(interfaces.InterfaceChangeEvent{Interface: 1, Kind: interfaces.ChangeAdded})

	// 第二个事件不应到达回调
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, got.len())
	assert.True(t, handle.poisoned.Load())
}

// TestNotifier_SubscribeError 测试订阅失败时返回操作系统错误
func TestNotifier_SubscribeError(t *testing.T) {
	source := newFakeSource()
	source.subErr = assert.AnError

	handle, err := RegisterAddressChanges(source, func(interfaces.InterfaceChangeEvent) {}, nil)
	assert.Nil(t, handle)
	assert.ErrorIs(t, err, assert.AnError)
}
