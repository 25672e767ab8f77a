package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
	}

	for _, from := range AllOrderStatuses() {
		for _, to := range AllOrderStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "En attente", OrderStatusPending.Label())
	assert.Equal(t, "Livré", OrderStatusDelivered.Label())
	assert.False(t, OrderStatus("lost").IsValid())
}

func TestOrderTotals(t *testing.T) {
	t.Parallel()

	order := &Order{Items: []*OrderItem{
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		{UnitPrice: decimal.RequireFromString("5.10"), Quantity: 1},
	}}

	assert.True(t, decimal.RequireFromString("45.08").Equal(order.ComputeTotal()))
	assert.Equal(t, 3, order.ItemCount())
}

func TestOrderReference(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0a1b2c3d-4e5f-6789-abcd-ef0123456789")
	assert.Equal(t, "ORD-0A1B2C3D", OrderReference(id))
	assert.Equal(t, "SKU-0A1B2C3D", ProductSKU(id))
}
