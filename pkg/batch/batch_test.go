package batch

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestFilterPreservesOrder(t *testing.T) {
	testCases := []struct {
		name string
		opts []Option
	}{
		{"defaults", nil},
		{"sequential", []Option{WithWorkers(1)}},
		{"forced parallel", []Option{WithWorkers(7), WithSequentialBelow(0)}},
		{"more workers than items", []Option{WithWorkers(5000), WithSequentialBelow(0)}},
	}

	items := sequence(1000)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(items, func(v int) bool { return v%3 == 0 }, tc.opts...)
			require.Len(t, got, 334)
			for i, v := range got {
				assert.Equal(t, i*3, v)
			}
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	assert.Empty(t, Filter(nil, func(int) bool { return true }))
	assert.Empty(t, Filter(sequence(10), func(int) bool { return false }))
}

func TestTryFilterError(t *testing.T) {
	boom := errors.New("boom")
	for _, opts := range [][]Option{
		{WithWorkers(1)},
		{WithWorkers(4), WithSequentialBelow(0)},
	} {
		got, err := TryFilter(sequence(500), func(v int) (bool, error) {
			if v == 321 {
				return false, boom
			}
			return true, nil
		}, opts...)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	}
}

func TestTryFilterVisitsEveryItem(t *testing.T) {
	var calls atomic.Int64
	got, err := TryFilter(sequence(10000), func(v int) (bool, error) {
		calls.Add(1)
		return v < 10, nil
	}, WithWorkers(8), WithSequentialBelow(0))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), calls.Load())
	assert.Equal(t, sequence(10), got)
}

func TestResolve(t *testing.T) {
	o := resolve(nil)
	assert.Equal(t, runtime.NumCPU(), o.Workers)
	assert.Equal(t, DefaultSequentialBelow, o.SequentialBelow)

	o = resolve([]Option{WithWorkers(-3), WithSequentialBelow(-1)})
	assert.Equal(t, runtime.NumCPU(), o.Workers)
	assert.Equal(t, 0, o.SequentialBelow)

	o = resolve([]Option{WithOptions(Options{Workers: 2, SequentialBelow: 10})})
	assert.Equal(t, Options{Workers: 2, SequentialBelow: 10}, o)
}

func BenchmarkFilter(b *testing.B) {
	items := sequence(100000)
	keep := func(v int) bool { return v%7 == 0 }
	for _, workers := range []int{1, 2, 4, runtime.NumCPU()} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = Filter(items, keep, WithWorkers(workers), WithSequentialBelow(0))
			}
		})
	}
}
