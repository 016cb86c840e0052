package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusRefunded))

	// no moving backwards
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))

	// terminal states stay terminal
	for _, next := range OrderStatuses {
		assert.False(t, OrderStatusCancelled.CanTransitionTo(next), "Cancelled -> %s", next)
		assert.False(t, OrderStatusRefunded.CanTransitionTo(next), "Refunded -> %s", next)
	}
}

func TestValidCategoryAndTag(t *testing.T) {
	assert.True(t, ValidCategory(CategoryFullCloths))
	assert.False(t, ValidCategory("Hats"))
	assert.True(t, ValidTag("Wedding"))
	assert.False(t, ValidTag("wedding"))
}
