// Package session drives one guest's ordering flow: draft a cart, submit it,
// keep editing until the kitchen picks the order up, and watch its status.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roomservice/internal/cart"
	"roomservice/internal/domain"

	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	AwaitingOrderID
	Editing
	Locked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingOrderID:
		return "awaiting-order-id"
	case Editing:
		return "editing"
	case Locked:
		return "locked"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrEmptyCart   = errors.New("cannot place an empty order")
	ErrLocked      = errors.New("order can no longer be modified")
	ErrInFlight    = errors.New("order submission in progress")
	ErrNotEditing  = errors.New("no placed order to edit")
	ErrAlreadySent = errors.New("order already placed")
	ErrClosed      = errors.New("session closed")
)

const (
	DefaultPollInterval = 10 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// OrderAPI is the slice of the server the session needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, roomNumber string, lines []domain.LineRequest) (uint64, error)
	ReplaceItems(ctx context.Context, id uint64, lines []domain.LineRequest) (*domain.Order, error)
	GetStatus(ctx context.Context, id uint64) (*domain.StatusView, error)
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	State      State
	RoomNumber string
	OrderID    uint64
	Cart       cart.Cart
	Status     *domain.StatusView
	Message    string
	Polling    bool
}

type Option func(*Session)

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStatusHook registers fn to run after every poll outcome.
func WithStatusHook(fn func(Snapshot)) Option {
	return func(s *Session) { s.onPoll = fn }
}

type Session struct {
	api         OrderAPI
	room        string
	interval    time.Duration
	callTimeout time.Duration
	log         *zap.Logger
	onPoll      func(Snapshot)

	mu        sync.Mutex
	state     State
	cart      cart.Cart
	confirmed cart.Cart
	orderID   uint64
	status    *domain.StatusView
	message   string
	closed    bool
	polling   bool

	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

func New(api OrderAPI, roomNumber string, opts ...Option) *Session {
	s := &Session{
		api:         api,
		room:        roomNumber,
		interval:    DefaultPollInterval,
		callTimeout: defaultCallTimeout,
		log:         zap.NewNop(),
		cart:        cart.New(),
		confirmed:   cart.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var status *domain.StatusView
	if s.status != nil {
		v := *s.status
		status = &v
	}
	return Snapshot{
		State:      s.state,
		RoomNumber: s.room,
		OrderID:    s.orderID,
		Cart:       s.cart,
		Status:     status,
		Message:    s.message,
		Polling:    s.polling,
	}
}

// mutableLocked returns why the cart may not change, or nil.
func (s *Session) mutableLocked() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.state == Locked:
		return ErrLocked
	case s.state == AwaitingOrderID:
		return ErrInFlight
	}
	return nil
}

func (s *Session) Add(it domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cart = s.cart.Add(it)
	return nil
}

func (s *Session) Remove(itemID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cart = s.cart.Remove(itemID)
	return nil
}

// Submit places the cart as a new order and starts watching its status.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state != Idle {
		s.mu.Unlock()
		return ErrAlreadySent
	}
	if s.cart.IsEmpty() {
		s.message = "Cannot place empty order"
		s.mu.Unlock()
		return ErrEmptyCart
	}
	s.state = AwaitingOrderID
	draft := s.cart
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	id, err := s.api.CreateOrder(callCtx, s.room, draft.Requests())
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Idle
		s.message = err.Error()
		return err
	}
	s.orderID = id
	s.confirmed = draft
	s.state = Editing
	s.message = "Order placed successfully! You can modify your order until it's in progress."
	if s.closed {
		s.log.Warn("order placed after session closed, not polling",
			zap.String("room", s.room), zap.Uint64("order_id", id))
		return ErrClosed
	}
	s.log.Info("order placed", zap.String("room", s.room), zap.Uint64("order_id", id))
	s.startPollingLocked()
	return nil
}

// SaveEdits replaces the placed order's lines with the current cart.
func (s *Session) SaveEdits(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.state == Locked:
		s.mu.Unlock()
		return ErrLocked
	case s.state != Editing:
		s.mu.Unlock()
		return ErrNotEditing
	case s.cart.IsEmpty():
		s.message = "Cannot update with empty order"
		s.mu.Unlock()
		return ErrEmptyCart
	}
	id, draft := s.orderID, s.cart
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	_, err := s.api.ReplaceItems(callCtx, id, draft.Requests())
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.message = err.Error()
		return err
	}
	s.confirmed = draft
	s.message = "Order updated successfully! You can continue modifying until it's in progress."
	return nil
}

// CancelEdit restores the last line set the server confirmed.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrClosed
	case s.state == Locked:
		return ErrLocked
	case s.state != Editing:
		return ErrNotEditing
	}
	s.cart = s.confirmed
	s.message = "Edit cancelled. Restored original order."
	return nil
}

// Close stops polling and waits for the poller to exit. It is safe to call
// more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	cancel, done := s.pollCancel, s.pollDone
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.polling = false
	s.mu.Unlock()
}
