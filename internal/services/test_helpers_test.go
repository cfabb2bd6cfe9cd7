package services

import (
	"context"
	"testing"

	"roomservice/internal/domain"
	"roomservice/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	caesarSaladID   = uint64(1)
	tomatoSoupID    = uint64(2)
	grilledSalmonID = uint64(3)
	coffeeID        = uint64(4)
)

func strptr(s string) *string { return &s }

func createMockItem(id uint64, name, price, course string) domain.Item {
	return domain.Item{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Course: strptr(course),
	}
}

func testCatalog() []domain.Item {
	return []domain.Item{
		createMockItem(caesarSaladID, "Caesar Salad", "7.99", "appetizer"),
		createMockItem(tomatoSoupID, "Tomato Soup", "5.50", "appetizer"),
		createMockItem(grilledSalmonID, "Grilled Salmon", "18.99", "main"),
		createMockItem(coffeeID, "Coffee", "3.00", "beverage"),
	}
}

// newMemoryService returns a service over a seeded in-memory store.
func newMemoryService(t *testing.T) (*OrderService, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Items().SaveBatch(context.Background(), testCatalog()))
	return NewOrderService(store.Orders(), store.Items(), nil, nil), store
}
