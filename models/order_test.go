package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusForwardTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPreparing))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
}

func TestOrderStatusNoSkippingOrRewinding(t *testing.T) {
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPreparing))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusPreparing))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusShipped))
}

func TestOrderStatusCancellation(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusShipped} {
		assert.True(t, s.CanTransitionTo(OrderStatusCancelled), "from %s", s)
	}

	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPreparing))
	assert.False(t, ValidOrderStatus(OrderStatus("expédiée")))
	assert.False(t, ValidOrderStatus(OrderStatus("")))
}
