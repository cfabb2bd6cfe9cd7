package repository

import (
	"context"
	"errors"

	"roomservice/internal/domain"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by mutations that target a missing order.
var ErrNotFound = errors.New("record not found")

// OrderRepository persists orders together with their lines. Lookups return
// nil, nil when the order does not exist.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
	// ReplaceLines swaps the full line set and the total in one transaction.
	ReplaceLines(ctx context.Context, id uint64, lines []domain.OrderLine, total decimal.Decimal) error
	Ping(ctx context.Context) error
}

type ItemRepository interface {
	List(ctx context.Context) ([]domain.Item, error)
	FindByID(ctx context.Context, id uint64) (*domain.Item, error)
	Count(ctx context.Context) (int64, error)
	SaveBatch(ctx context.Context, items []domain.Item) error
}
