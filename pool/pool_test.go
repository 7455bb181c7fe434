package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	value int
}

func TestPool(t *testing.T) {
	var resets int
	p := NewPool(
		func() *item { return &item{value: 1} },
		func(v *item) { resets++; v.value = 0 },
		nil,
	)

	a := p.Get()
	require.NotNil(t, a)
	require.Equal(t, uint64(1), p.InUse())
	require.Equal(t, uint64(1), p.Allocated.Load())

	a.value = 42
	p.Put(a, nil)
	require.Equal(t, 1, resets)
	require.Zero(t, a.value)
	require.Zero(t, p.InUse())
}

func TestPoolNoReuse(t *testing.T) {
	ReuseMemory = false
	defer func() { ReuseMemory = true }()

	var resets int
	p := NewPool(
		func() *item { return &item{} },
		func(v *item) { resets++ },
		nil,
	)
	p.Put(p.Get())
	require.Zero(t, resets)
	require.Zero(t, p.InUse())
}
