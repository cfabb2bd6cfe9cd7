package dashboard

import (
	"context"
	"errors"
	"sync"

	"roomservice/internal/domain"
)

var ErrRowBusy = errors.New("status update already in flight for this order")

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error)
}

// Board keeps the staff's local copy of the order list. Each row tracks
// its own in-flight update; other rows stay interactive.
type Board struct {
	api StatusUpdater

	mu      sync.Mutex
	orders  []domain.Order
	busy    map[uint64]bool
	lastErr error
}

func NewBoard(api StatusUpdater, orders []domain.Order) *Board {
	return &Board{
		api:    api,
		orders: append([]domain.Order(nil), orders...),
		busy:   make(map[uint64]bool),
	}
}

// Visible returns the rows shown under f.
func (b *Board) Visible(f Filter) []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return f.Apply(b.orders)
}

func (b *Board) Busy(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy[id]
}

// LastError is the most recent update failure, cleared when a new update starts.
func (b *Board) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// SubmitStatus sends a status change for one row and swaps in the order the
// server returns.
func (b *Board) SubmitStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	b.mu.Lock()
	if b.busy[id] {
		b.mu.Unlock()
		return ErrRowBusy
	}
	b.busy[id] = true
	b.lastErr = nil
	b.mu.Unlock()

	updated, err := b.api.UpdateStatus(ctx, id, status)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.busy, id)
	if err != nil {
		b.lastErr = err
		return err
	}
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i] = *updated
		}
	}
	return nil
}
