// Package pool provides a generic object pool whose objects are freed by a finalizer.
package pool

import (
	"sync"

	"github.com/xaionaro-go/hwdecoder/internal"
	"go.uber.org/atomic"
)

// ReuseMemory could be set to false to make Put a no-op (handy when hunting use-after-put bugs).
var ReuseMemory = true

type Pool[T any] struct {
	pool      sync.Pool
	ResetFunc func(*T)

	Allocated atomic.Uint64
	Freed     atomic.Uint64
	Gets      atomic.Uint64
	Puts      atomic.Uint64
}

func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	p := &Pool[T]{
		ResetFunc: resetFunc,
	}
	p.pool.New = func() any {
		v := allocFunc()
		p.Allocated.Inc()
		if freeFunc != nil {
			internal.SetFinalizer(v, func(v *T) {
				p.Freed.Inc()
				freeFunc(v)
			})
		}
		return v
	}
	return p
}

func (p *Pool[T]) Get() *T {
	p.Gets.Inc()
	return p.pool.Get().(*T)
}

// Put resets the items and makes them available to Get again; nil items are skipped.
func (p *Pool[T]) Put(items ...*T) {
	for _, item := range items {
		if item == nil {
			continue
		}
		p.Puts.Inc()
		if !ReuseMemory {
			continue
		}
		if p.ResetFunc != nil {
			p.ResetFunc(item)
		}
		p.pool.Put(item)
	}
}

// InUse returns how many of the items handed out by Get were not put back yet.
func (p *Pool[T]) InUse() uint64 {
	return p.Gets.Load() - p.Puts.Load()
}
