package ifwatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// TestWaitForInterfaces_FastPath 测试所请求地址族已在场时立即返回
func TestWaitForInterfaces_FastPath(t *testing.T) {
	source := newFakeSource()
	source.setTable(
		v4Entry(7, interfaces.DadStatePreferred),
		v6Entry(7, interfaces.DadStateTentative),
	)
	r := NewReadiness(source, nil)

	err := r.WaitForInterfaces(context.Background(), 7, true, true)
	assert.NoError(t, err)
}

// TestWaitForInterfaces_NothingRequested 测试不请求任何地址族时为空操作
func TestWaitForInterfaces_NothingRequested(t *testing.T) {
	source := newFakeSource()
	r := NewReadiness(source, nil)

	err := r.WaitForInterfaces(context.Background(), 7, false, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, source.queryCount())
}

// TestWaitForInterfaces_EventPath 测试缺失地址族由 Added 事件补齐后才返回
func TestWaitForInterfaces_EventPath(t *testing.T) {
	source := newFakeSource()
	source.setTable(v4Entry(7, interfaces.DadStatePreferred))
	r := NewReadiness(source, nil)

	result := make(chan error, 1)
	go func() {
		result <- r.WaitForInterfaces(context.Background(), 7, true, true)
	}()
	source.waitForSubscriber(t, 1)

	// 其他接口的事件不满足等待
	source.emit(interfaces.InterfaceChangeEvent{Interface: 9, Family: interfaces.FamilyIPv6, Kind: interfaces.ChangeAdded})
	// 已满足地址族的事件同样不满足等待
	source.emit(interfaces.InterfaceChangeEvent{Interface: 7, Family: interfaces.FamilyIPv4, Kind: interfaces.ChangeAdded})
	// 移除事件不满足等待
	source.emit(interfaces.InterfaceChangeEvent{Interface: 7, Family: interfaces.FamilyIPv6, Kind: interfaces.ChangeRemoved})

	select {
	case err := <-result:
		t.Fatalf("resolved too early: %v", err)
	case <-time.After(30 * time.Millisecond):
	}

	// 匹配接口上缺失地址族的 Added 事件触发返回
	source.emit(interfaces.InterfaceChangeEvent{Interface: 7, Family: interfaces.FamilyIPv6, Kind: interfaces.ChangeAdded})

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitForInterfaces did not resolve")
	}
}

// TestWaitForInterfaces_ContextCancel 测试调用方取消
func TestWaitForInterfaces_ContextCancel(t *testing.T) {
	source := newFakeSource()
	r := NewReadiness(source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- r.WaitForInterfaces(ctx, 7, true, false)
	}()
	source.waitForSubscriber(t, 1)

	cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("WaitForInterfaces did not return after cancel")
	}
}

// TestWaitForInterfaces_SubscribeError 测试注册失败向上传播
func TestWaitForInterfaces_SubscribeError(t *testing.T) {
	source := newFakeSource()
	source.subErr = assert.AnError
	r := NewReadiness(source, nil)

	err := r.WaitForInterfaces(context.Background(), 7, true, true)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestWaitForInterfaces_QueryError 测试订阅后的表查询失败向上传播
func TestWaitForInterfaces_QueryError(t *testing.T) {
	source := newFakeSource()
	source.listErr = assert.AnError
	r := NewReadiness(source, nil)

	err := r.WaitForInterfaces(context.Background(), 7, true, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrObtainUnicastAddress)
}
