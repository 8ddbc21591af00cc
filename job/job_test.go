package job

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancellationPropagatesToChildren(t *testing.T) {
	parent := New()
	child := parent.Child()
	assert.False(t, child.Cancelled())
	parent.Cancel()
	assert.True(t, child.Cancelled())
}

func TestTickReportsCancellation(t *testing.T) {
	j := New()
	assert.True(t, j.Tick("rows", 512))
	j.Cancel()
	assert.False(t, j.Tick("rows", 512))
	assert.Equal(t, 1024, j.Progress("rows"))
}

func TestFutureRunsProducerOnce(t *testing.T) {
	calls := 0
	f := NewFuture(func() (int, error) {
		calls++
		return 42, nil
	})
	for i := 0; i < 5; i++ {
		v, err := f.Get()
		assert.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestReservoirIsDeterministicWithInjectedRand(t *testing.T) {
	mk := func() []int {
		r := NewReservoirWithRand[int](3, rand.New(rand.NewSource(42)))
		for i := 0; i < 100; i++ {
			r.Add(i)
		}
		return r.Result()
	}
	a := mk()
	b := mk()
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}

func TestMovingSampleKeepsTrailingWindow(t *testing.T) {
	m := NewMovingSample[int](3)
	for i := 0; i < 5; i++ {
		m.Add(i)
	}
	assert.Equal(t, []int{2, 3, 4}, m.Result())
}
