package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCartAdd(t *testing.T) {
	tests := []struct {
		name     string
		add      func(cart *Cart) []uuid.UUID
		expected func(t *testing.T, cart *Cart, productIds []uuid.UUID)
	}{
		{
			name: "given a new product should append a line with the given quantity",
			add: func(cart *Cart) []uuid.UUID {
				productId := uuid.New()
				cart.Add(productId, 3)
				return []uuid.UUID{productId}
			},
			expected: func(t *testing.T, cart *Cart, productIds []uuid.UUID) {
				items := cart.Items()
				assert.Len(t, items, 1)
				assert.Equal(t, productIds[0], items[0].ProductID)
				assert.Equal(t, int32(3), items[0].Quantity)
				assert.Equal(t, int32(3), cart.Count())
			},
		},
		{
			name: "given an already carted product should merge quantities into one line",
			add: func(cart *Cart) []uuid.UUID {
				productId := uuid.New()
				cart.Add(productId, 2)
				cart.Add(productId, 5)
				return []uuid.UUID{productId}
			},
			expected: func(t *testing.T, cart *Cart, productIds []uuid.UUID) {
				items := cart.Items()
				assert.Len(t, items, 1)
				assert.Equal(t, int32(7), items[0].Quantity)
				assert.Equal(t, int32(7), cart.Count())
			},
		},
		{
			name: "given a quantity below one should clamp to one",
			add: func(cart *Cart) []uuid.UUID {
				productId := uuid.New()
				cart.Add(productId, 0)
				cart.Add(uuid.New(), -4)
				return []uuid.UUID{productId}
			},
			expected: func(t *testing.T, cart *Cart, productIds []uuid.UUID) {
				items := cart.Items()
				assert.Len(t, items, 2)
				assert.Equal(t, int32(1), items[0].Quantity)
				assert.Equal(t, int32(1), items[1].Quantity)
				assert.Equal(t, int32(2), cart.Count())
			},
		},
		{
			name: "given distinct products should keep one line per product",
			add: func(cart *Cart) []uuid.UUID {
				first := uuid.New()
				second := uuid.New()
				cart.Add(first, 1)
				cart.Add(second, 2)
				cart.Add(first, 1)
				return []uuid.UUID{first, second}
			},
			expected: func(t *testing.T, cart *Cart, productIds []uuid.UUID) {
				items := cart.Items()
				assert.Len(t, items, 2)
				assert.Equal(t, productIds[0], items[0].ProductID)
				assert.Equal(t, int32(2), items[0].Quantity)
				assert.Equal(t, productIds[1], items[1].ProductID)
				assert.Equal(t, int32(2), items[1].Quantity)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cart := NewCart()
			productIds := test.add(cart)
			test.expected(t, cart, productIds)
		})
	}
}

func TestCartRemove(t *testing.T) {
	t.Run("given an existing line should remove it", func(t *testing.T) {
		cart := NewCart()
		item := cart.Add(uuid.New(), 2)
		cart.Add(uuid.New(), 1)

		cart.Remove(item.ID)

		assert.Len(t, cart.Items(), 1)
		assert.Equal(t, int32(1), cart.Count())
	})
	t.Run("given an unknown item id should be a no-op", func(t *testing.T) {
		cart := NewCart()
		cart.Add(uuid.New(), 2)

		cart.Remove(uuid.New())

		assert.Len(t, cart.Items(), 1)
		assert.Equal(t, int32(2), cart.Count())
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	t.Run("given a positive quantity should overwrite the line", func(t *testing.T) {
		cart := NewCart()
		item := cart.Add(uuid.New(), 2)

		cart.UpdateQuantity(item.ID, 9)

		items := cart.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, int32(9), items[0].Quantity)
	})
	t.Run("given a quantity of zero should remove the line", func(t *testing.T) {
		cart := NewCart()
		item := cart.Add(uuid.New(), 2)

		cart.UpdateQuantity(item.ID, 0)

		assert.Empty(t, cart.Items())
		assert.Equal(t, int32(0), cart.Count())
	})
	t.Run("given a negative quantity should remove the line", func(t *testing.T) {
		cart := NewCart()
		item := cart.Add(uuid.New(), 2)

		cart.UpdateQuantity(item.ID, -1)

		assert.Empty(t, cart.Items())
	})
	t.Run("given an unknown item id should be a no-op", func(t *testing.T) {
		cart := NewCart()
		cart.Add(uuid.New(), 2)

		cart.UpdateQuantity(uuid.New(), 5)

		assert.Equal(t, int32(2), cart.Count())
	})
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	cart.Add(uuid.New(), 2)
	cart.Add(uuid.New(), 3)

	cart.Clear()

	assert.Empty(t, cart.Items())
	assert.Equal(t, int32(0), cart.Count())
}

func TestCartSnapshotRestore(t *testing.T) {
	cart := NewCart()
	cart.Add(uuid.New(), 2)
	cart.Add(uuid.New(), 3)

	snapshot := cart.Snapshot()
	restored := NewCart()
	restored.Restore(snapshot)

	assert.Equal(t, cart.Items(), restored.Items())
	assert.Equal(t, cart.Count(), restored.Count())
}
