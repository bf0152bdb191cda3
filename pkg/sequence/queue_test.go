package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopDueOrdersByDeadline(t *testing.T) {
	q := NewDeadlineQueue[string]()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	q.Schedule("c", base.Add(3*time.Second))
	q.Schedule("a", base.Add(1*time.Second))
	q.Schedule("b", base.Add(2*time.Second))

	assert.Nil(t, q.PopDue(base), "nothing due yet")

	first := q.PopDue(base.Add(time.Second))
	require.NotNil(t, first)
	assert.Equal(t, "a", first.Value)

	// Popping at a later instant drains everything due, in order.
	second := q.PopDue(base.Add(time.Hour))
	third := q.PopDue(base.Add(time.Hour))
	require.NotNil(t, second)
	require.NotNil(t, third)
	assert.Equal(t, "b", second.Value)
	assert.Equal(t, "c", third.Value)
	assert.Nil(t, q.PopDue(base.Add(time.Hour)))
}

func TestCancelRemovesItem(t *testing.T) {
	q := NewDeadlineQueue[int]()
	base := time.Now()

	item := q.Schedule(1, base)
	q.Schedule(2, base)
	q.Cancel(item)

	got := q.PopDue(base)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Value)
	assert.Nil(t, q.PopDue(base))

	// Cancelling an already-fired item is a no-op.
	q.Cancel(got)
	q.Cancel(item)
	assert.Zero(t, q.Len())
}

func TestClear(t *testing.T) {
	q := NewDeadlineQueue[int]()
	q.Schedule(1, time.Now())
	q.Schedule(2, time.Now())
	q.Clear()
	assert.Zero(t, q.Len())
	assert.Nil(t, q.PopDue(time.Now().Add(time.Hour)))
}
