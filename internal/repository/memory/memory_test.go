package memory

import (
	"context"
	"testing"

	"roomservice/internal/domain"
	"roomservice/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Items().SaveBatch(context.Background(), []domain.Item{
		{Name: "Caesar Salad", Price: decimal.RequireFromString("7.99")},
		{Name: "Coffee", Price: decimal.RequireFromString("3.00")},
	}))
	return s
}

func line(it domain.Item, qty int) domain.OrderLine {
	return domain.OrderLine{ItemID: it.ID, Item: it, Quantity: qty}
}

func TestItems_SaveBatchAssignsIDs(t *testing.T) {
	s := seeded(t)
	items, err := s.Items().List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(1), items[0].ID)
	assert.Equal(t, uint64(2), items[1].ID)

	missing, err := s.Items().FindByID(context.Background(), 9)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrders_CreateAndReadBackIsolated(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	salad, _ := s.Items().FindByID(ctx, 1)

	order := &domain.Order{RoomNumber: "101", Status: domain.StatusPending, OrderItems: []domain.OrderLine{line(*salad, 2)}}
	require.NoError(t, s.Orders().Create(ctx, order))
	assert.Equal(t, uint64(1), order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	got, err := s.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	got.OrderItems[0].Quantity = 99

	again, err := s.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.OrderItems[0].Quantity)
	assert.Equal(t, order.ID, again.OrderItems[0].OrderID)
}

func TestOrders_CreateRejectsUnknownItem(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	err := s.Orders().Create(ctx, &domain.Order{RoomNumber: "101", OrderItems: []domain.OrderLine{{ItemID: 42, Quantity: 1}}})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	orders, err := s.Orders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrders_ReplaceLinesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	salad, _ := s.Items().FindByID(ctx, 1)
	coffee, _ := s.Items().FindByID(ctx, 2)

	order := &domain.Order{RoomNumber: "210", OrderItems: []domain.OrderLine{line(*salad, 1)}, TotalPrice: salad.Price}
	require.NoError(t, s.Orders().Create(ctx, order))

	bad := []domain.OrderLine{line(*coffee, 1), {ItemID: 77, Quantity: 1}}
	assert.ErrorIs(t, s.Orders().ReplaceLines(ctx, order.ID, bad, decimal.NewFromInt(3)), repository.ErrNotFound)

	got, _ := s.Orders().FindByID(ctx, order.ID)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, salad.ID, got.OrderItems[0].ItemID)
	assert.True(t, salad.Price.Equal(got.TotalPrice))

	good := []domain.OrderLine{line(*coffee, 3)}
	require.NoError(t, s.Orders().ReplaceLines(ctx, order.ID, good, decimal.RequireFromString("9.00")))
	got, _ = s.Orders().FindByID(ctx, order.ID)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, coffee.ID, got.OrderItems[0].ItemID)
	assert.Equal(t, "9.00", got.TotalPrice.StringFixed(2))
}

func TestOrders_MissingOrder(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	assert.ErrorIs(t, s.Orders().UpdateStatus(ctx, 5, domain.StatusCompleted), repository.ErrNotFound)
	assert.ErrorIs(t, s.Orders().ReplaceLines(ctx, 5, nil, decimal.Zero), repository.ErrNotFound)
	o, err := s.Orders().FindByID(ctx, 5)
	assert.NoError(t, err)
	assert.Nil(t, o)
}
