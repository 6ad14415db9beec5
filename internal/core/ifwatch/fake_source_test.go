package ifwatch

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// fakeSource 可脚本化的系统查询假实现
type fakeSource struct {
	mu      sync.Mutex
	names   map[string]int
	table   []interfaces.UnicastAddressEntry
	queries int
	listErr error
	subErr  error
	subs    []fakeSub
}

type fakeSub struct {
	ch   chan<- interfaces.InterfaceChangeEvent
	done <-chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{names: map[string]int{}}
}

func (f *fakeSource) InterfaceIndex(name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.names[name], nil
}

func (f *fakeSource) UnicastAddresses(_ *interfaces.AddressFamily) ([]interfaces.UnicastAddressEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]interfaces.UnicastAddressEntry, len(f.table))
	copy(out, f.table)
	return out, nil
}

func (f *fakeSource) SubscribeAddresses(ch chan<- interfaces.InterfaceChangeEvent, done <-chan struct{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return f.subErr
	}
	f.subs = append(f.subs, fakeSub{ch: ch, done: done})
	return nil
}

// setTable 替换当前地址表
func (f *fakeSource) setTable(entries ...interfaces.UnicastAddressEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = entries
}

// queryCount 返回地址表被查询的次数
func (f *fakeSource) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// emit 向所有存活订阅投递一个事件
func (f *fakeSource) emit(ev interfaces.InterfaceChangeEvent) {
	f.mu.Lock()
	subs := make([]fakeSub, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		select {
		case <-sub.done:
		case sub.ch <- ev:
		}
	}
}

// waitForSubscriber 等待至少 n 个订阅出现
func (f *fakeSource) waitForSubscriber(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		count := len(f.subs)
		f.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no subscriber appeared in time (want %d)", n)
}

// v4Entry / v6Entry 构造地址表条目
func v4Entry(ifindex int, dad interfaces.DadState) interfaces.UnicastAddressEntry {
	return interfaces.UnicastAddressEntry{Interface: ifindex, Family: interfaces.FamilyIPv4, Dad: dad}
}

func v6Entry(ifindex int, dad interfaces.DadState) interfaces.UnicastAddressEntry {
	return interfaces.UnicastAddressEntry{Interface: ifindex, Family: interfaces.FamilyIPv6, Dad: dad}
}
