package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainDeliversInEnqueueOrder(t *testing.T) {
	d := NewDispatcher[int](nil)
	var got []int
	d.Subscribe("tick", func(v int) { got = append(got, v) })

	d.Enqueue("tick", 1)
	d.Enqueue("tick", 2)
	d.Enqueue("other", 99)
	d.Enqueue("tick", 3)
	assert.Empty(t, got, "enqueue must not invoke handlers")
	assert.Equal(t, 4, d.Pending())

	d.Drain()
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, d.Pending())
}

func TestEventsEnqueuedDuringDrainWait(t *testing.T) {
	d := NewDispatcher[int](nil)
	var delivered int
	d.Subscribe("t", func(v int) {
		delivered++
		if v == 1 {
			d.Enqueue("t", 2)
		}
	})

	d.Enqueue("t", 1)
	d.Drain()
	assert.Equal(t, 1, delivered, "re-entrant enqueue held for next drain")
	d.Drain()
	assert.Equal(t, 2, delivered)
}

func TestCancelStopsDelivery(t *testing.T) {
	d := NewDispatcher[int](nil)
	var a, b int
	subA := d.Subscribe("t", func(int) { a++ })
	d.Subscribe("t", func(int) { b++ })

	d.Enqueue("t", 1)
	d.Drain()
	require.Equal(t, 1, a)

	subA.Cancel()
	d.Enqueue("t", 2)
	d.Drain()
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestHandlerPanicRecovered(t *testing.T) {
	d := NewDispatcher[int](nil)
	var survived bool
	d.Subscribe("t", func(int) { panic("boom") })
	d.Subscribe("t", func(int) { survived = true })

	d.Enqueue("t", 1)
	assert.NotPanics(t, d.Drain)
	assert.True(t, survived)
}

func TestClearDropsQueued(t *testing.T) {
	d := NewDispatcher[int](nil)
	var got int
	d.Subscribe("t", func(int) { got++ })
	d.Enqueue("t", 1)
	d.Clear()
	d.Drain()
	assert.Zero(t, got)
}
