// Package weakref 提供弱引用句柄原语
//
// 用于在不延长被引用对象生命周期的前提下持有它：
// 后台任务通过弱引用持有下游通道，一旦最后一个强引用被释放，
// Upgrade 永久失败，后台任务以此作为自我终止信号。
package weakref

import "sync"

// shared 强弱引用共享的内部状态
//
// 不变量：strong == 0 后 alive 永久为 false，值被清零以便回收。
type shared[T any] struct {
	mu     sync.Mutex
	value  T
	strong int
	alive  bool
}

// Strong 强引用
//
// 每个 Strong 必须恰好 Release 一次；重复 Release 是空操作。
type Strong[T any] struct {
	s        *shared[T]
	released bool
	mu       sync.Mutex
}

// Weak 弱引用
//
// 可以随时 Upgrade；在所有强引用释放后 Upgrade 返回 false。
type Weak[T any] struct {
	s *shared[T]
}

// New 创建一个值的强/弱引用对
func New[T any](value T) (*Strong[T], *Weak[T]) {
	s := &shared[T]{
		value:  value,
		strong: 1,
		alive:  true,
	}
	return &Strong[T]{s: s}, &Weak[T]{s: s}
}

// Get 返回被引用的值
//
// 仅在 Release 之前调用有效。
func (r *Strong[T]) Get() T {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.value
}

// Release 释放强引用
//
// 最后一个强引用释放后，弱引用无法再升级，值被清零。
func (r *Strong[T]) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.mu.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.strong--
	if r.s.strong == 0 {
		r.s.alive = false
		var zero T
		r.s.value = zero
	}
}

// Upgrade 尝试将弱引用升级为强引用
//
// 仅当仍有强引用存活时成功；返回的 Strong 必须由调用方 Release。
// 已消亡的引用对不会复活。
func (w *Weak[T]) Upgrade() (*Strong[T], bool) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	if !w.s.alive {
		return nil, false
	}
	w.s.strong++
	return &Strong[T]{s: w.s}, true
}
