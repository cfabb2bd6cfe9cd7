// Package memory implements the order and item repositories in process memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"roomservice/internal/domain"
	"roomservice/internal/repository"

	"github.com/shopspring/decimal"
)

// Store provides an in-memory implementation of both repository interfaces.
type Store struct {
	mu         sync.RWMutex
	items      map[uint64]domain.Item
	orders     map[uint64]*domain.Order
	nextItem   uint64
	nextOrder  uint64
	nextLineID uint64
	now        func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		items:  make(map[uint64]domain.Item),
		orders: make(map[uint64]*domain.Order),
		now:    time.Now,
	}
}

// Items returns the store as an ItemRepository.
func (s *Store) Items() repository.ItemRepository { return itemRepo{s} }

// Orders returns the store as an OrderRepository.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

type itemRepo struct{ s *Store }

func (r itemRepo) List(ctx context.Context) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r itemRepo) FindByID(ctx context.Context, id uint64) (*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r itemRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.items)), nil
}

// SaveBatch assigns ids to items that have none and stores them.
func (r itemRepo) SaveBatch(ctx context.Context, items []domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range items {
		if items[i].ID == 0 {
			r.s.nextItem++
			items[i].ID = r.s.nextItem
		} else if items[i].ID > r.s.nextItem {
			r.s.nextItem = items[i].ID
		}
		r.s.items[items[i].ID] = items[i]
	}
	return nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range order.OrderItems {
		if _, ok := r.s.items[l.ItemID]; !ok {
			return repository.ErrNotFound
		}
	}
	r.s.nextOrder++
	order.ID = r.s.nextOrder
	now := r.s.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.assignLines(order.ID, order.OrderItems)
	r.s.orders[order.ID] = order.Clone()
	return nil
}

func (r orderRepo) assignLines(orderID uint64, lines []domain.OrderLine) {
	for i := range lines {
		r.s.nextLineID++
		lines[i].ID = r.s.nextLineID
		lines[i].OrderID = orderID
	}
}

func (r orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = r.s.now()
	return nil
}

func (r orderRepo) ReplaceLines(ctx context.Context, id uint64, lines []domain.OrderLine, total decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, l := range lines {
		if _, ok := r.s.items[l.ItemID]; !ok {
			return repository.ErrNotFound
		}
	}
	replaced := append([]domain.OrderLine(nil), lines...)
	r.assignLines(id, replaced)
	o.OrderItems = replaced
	o.TotalPrice = total
	o.UpdatedAt = r.s.now()
	return nil
}

func (r orderRepo) Ping(ctx context.Context) error { return nil }
