package gormrepo

import (
	"context"
	"testing"

	"roomservice/internal/domain"
	"roomservice/internal/infra/database"
	"roomservice/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with foreign keys
// enforced. One connection keeps every statement on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedItems(t *testing.T, items repository.ItemRepository) []domain.Item {
	t.Helper()
	catalog := []domain.Item{
		{Name: "Caesar Salad", Price: price("7.99")},
		{Name: "Tomato Soup", Price: price("5.50")},
		{Name: "Grilled Salmon", Price: price("18.99")},
	}
	require.NoError(t, items.SaveBatch(context.Background(), catalog))
	return catalog
}

func newOrder(room string, total string, lines ...domain.OrderLine) *domain.Order {
	return &domain.Order{RoomNumber: room, Status: domain.StatusPending, TotalPrice: price(total), OrderItems: lines}
}

func line(it domain.Item, qty int) domain.OrderLine {
	return domain.OrderLine{ItemID: it.ID, Item: it, Quantity: qty}
}

func lineSet(o *domain.Order) map[uint64]int {
	out := make(map[uint64]int, len(o.OrderItems))
	for _, l := range o.OrderItems {
		out[l.ItemID] += l.Quantity
	}
	return out
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()
	items := NewItemRepository(newTestDB(t))
	catalog := seedItems(t, items)

	n, err := items.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, it := range catalog {
		assert.NotZero(t, it.ID)
	}

	got, err := items.FindByID(ctx, catalog[2].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Grilled Salmon", got.Name)
	assert.True(t, price("18.99").Equal(got.Price))

	missing, err := items.FindByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_CreateResolvesItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := seedItems(t, NewItemRepository(db))
	orders := NewOrderRepository(db)

	order := newOrder("101", "34.97", line(catalog[0], 2), line(catalog[2], 1))
	require.NoError(t, orders.Create(ctx, order))
	require.NotZero(t, order.ID)

	got, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, price("34.97").Equal(got.TotalPrice))
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, got.OrderItems, 2)
	assert.Less(t, got.OrderItems[0].ID, got.OrderItems[1].ID)
	assert.Equal(t, "Caesar Salad", got.OrderItems[0].Item.Name)
	assert.Equal(t, 2, got.OrderItems[0].Quantity)
	assert.Equal(t, "Grilled Salmon", got.OrderItems[1].Item.Name)
	assert.True(t, price("18.99").Equal(got.OrderItems[1].Item.Price))

	missing, err := orders.FindByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_CreateRollsBackOnBadLine(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := seedItems(t, NewItemRepository(db))
	orders := NewOrderRepository(db)

	bad := newOrder("102", "7.99", line(catalog[0], 1), domain.OrderLine{ItemID: 999, Quantity: 1})
	assert.Error(t, orders.Create(ctx, bad))

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	var lines int64
	require.NoError(t, db.Model(&domain.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestOrderRepository_ReplaceLines(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := seedItems(t, NewItemRepository(db))
	orders := NewOrderRepository(db)

	order := newOrder("210", "15.98", line(catalog[0], 2))
	require.NoError(t, orders.Create(ctx, order))

	t.Run("new set supersedes old", func(t *testing.T) {
		fresh := []domain.OrderLine{line(catalog[1], 1), line(catalog[0], 1)}
		require.NoError(t, orders.ReplaceLines(ctx, order.ID, fresh, price("13.49")))

		got, err := orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uint64]int{catalog[1].ID: 1, catalog[0].ID: 1}, lineSet(got))
		assert.Equal(t, "Tomato Soup", got.OrderItems[0].Item.Name)
		assert.True(t, price("13.49").Equal(got.TotalPrice))
	})

	t.Run("failed insert keeps old lines and total", func(t *testing.T) {
		broken := []domain.OrderLine{line(catalog[2], 1), {ItemID: 999, Quantity: 1}}
		assert.Error(t, orders.ReplaceLines(ctx, order.ID, broken, price("99.99")))

		got, err := orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uint64]int{catalog[1].ID: 1, catalog[0].ID: 1}, lineSet(got))
		assert.True(t, price("13.49").Equal(got.TotalPrice))
	})

	t.Run("missing order", func(t *testing.T) {
		err := orders.ReplaceLines(ctx, 999, []domain.OrderLine{line(catalog[0], 1)}, price("7.99"))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := seedItems(t, NewItemRepository(db))
	orders := NewOrderRepository(db)

	order := newOrder("305", "5.50", line(catalog[1], 1))
	require.NoError(t, orders.Create(ctx, order))

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, domain.StatusCompleted))
	got, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	assert.Len(t, got.OrderItems, 1)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, 999, domain.StatusCanceled), repository.ErrNotFound)
}

func TestOrderRepository_ListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := seedItems(t, NewItemRepository(db))
	orders := NewOrderRepository(db)

	for _, room := range []string{"101", "210", "305"} {
		require.NoError(t, orders.Create(ctx, newOrder(room, "7.99", line(catalog[0], 1))))
	}

	all, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, room := range []string{"101", "210", "305"} {
		assert.Equal(t, room, all[i].RoomNumber)
		require.Len(t, all[i].OrderItems, 1)
		assert.Equal(t, "Caesar Salad", all[i].OrderItems[0].Item.Name)
	}
	assert.NoError(t, orders.Ping(ctx))
}
