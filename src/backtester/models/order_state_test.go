package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStateTransitions(t *testing.T) {
	now := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("accept sets the open time", func(t *testing.T) {
		state := NewOrderState()
		assert.Equal(t, OrderStatusInitial, state.Status)

		err := state.Accept(now)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatusAccepted, state.Status)
		assert.Equal(t, now, state.OpenedAt)
	})

	t.Run("close sets the close time once", func(t *testing.T) {
		state := NewOrderState()
		assert.NoError(t, state.Accept(now))

		later := now.Add(time.Hour)
		assert.NoError(t, state.Close(OrderStatusCompleted, later))
		assert.Equal(t, OrderStatusCompleted, state.Status)
		assert.Equal(t, later, state.ClosedAt)

		// repeating the same terminal transition is a no-op
		assert.NoError(t, state.Close(OrderStatusCompleted, later.Add(time.Hour)))
		assert.Equal(t, later, state.ClosedAt)
	})

	t.Run("conflicting terminal transition is rejected", func(t *testing.T) {
		state := NewOrderState()
		assert.NoError(t, state.Accept(now))
		assert.NoError(t, state.Close(OrderStatusCancelled, now))

		err := state.Close(OrderStatusCompleted, now)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, OrderStatusCancelled, state.Status)
	})

	t.Run("initial can only be accepted or rejected", func(t *testing.T) {
		state := NewOrderState()
		err := state.Close(OrderStatusCompleted, now)
		assert.ErrorIs(t, err, ErrIllegalTransition)

		assert.NoError(t, state.Close(OrderStatusRejected, now))
		assert.Equal(t, OrderStatusRejected, state.Status)
	})

	t.Run("accepted orders can reach every terminal status", func(t *testing.T) {
		for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired, OrderStatusRejected} {
			state := NewOrderState()
			assert.NoError(t, state.Accept(now))
			assert.NoError(t, state.Close(terminal, now), string(terminal))
			assert.Equal(t, terminal, state.Status)
		}
	})

	t.Run("accepting a closed order fails", func(t *testing.T) {
		state := NewOrderState()
		assert.NoError(t, state.Close(OrderStatusRejected, now))
		assert.ErrorIs(t, state.Accept(now), ErrIllegalTransition)
	})
}

func TestOrderStatusSets(t *testing.T) {
	assert.True(t, OrderStatusInitial.IsOpen())
	assert.True(t, OrderStatusAccepted.IsOpen())

	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired, OrderStatusRejected} {
		assert.True(t, status.IsClosed(), string(status))
	}

	assert.False(t, OrderStatusCompleted.IsAborted())
	assert.True(t, OrderStatusCancelled.IsAborted())
	assert.True(t, OrderStatusExpired.IsAborted())
	assert.True(t, OrderStatusRejected.IsAborted())
}
