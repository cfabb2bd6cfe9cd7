package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roomservice/internal/domain"
	"roomservice/internal/infra"
	"roomservice/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const publishTimeout = 3 * time.Second

var tracer = otel.Tracer("roomservice/services")

// OrderService owns every order mutation: creation, status transitions and
// line replacement. Totals are always derived from catalog prices.
type OrderService struct {
	orders      repository.OrderRepository
	items       repository.ItemRepository
	publisher   infra.EventPublisher
	redisClient *redis.Client
	itemLoads   singleflight.Group
	log         *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, items repository.ItemRepository, pub infra.EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = infra.NopPublisher{Log: log}
	}
	return &OrderService{
		orders:    orders,
		items:     items,
		publisher: pub,
		log:       log,
	}
}

func (u *OrderService) SetRedisClient(client *redis.Client) {
	u.redisClient = client
}

func (u *OrderService) CreateOrder(ctx context.Context, roomNumber string, reqs []domain.LineRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attribute.String("room", roomNumber)))
	defer span.End()

	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return nil, ValidationError{Field: "roomNumber", Message: "room number is required"}
	}
	lines, total, err := u.resolveLines(ctx, reqs)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	order := &domain.Order{
		RoomNumber: roomNumber,
		Status:     domain.StatusPending,
		TotalPrice: total,
		OrderItems: lines,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		recordErr(span, err)
		u.log.Error("order save failed", zap.String("room", roomNumber), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))

	u.log.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.String("room", roomNumber),
		zap.String("total", order.TotalPrice.StringFixed(2)),
		zap.Int("lines", len(order.OrderItems)))
	u.publish(ctx, domain.EventOrderCreated, order)
	return order, nil
}

// GetOrderStatus returns the status and last-modified time of an order.
func (u *OrderService) GetOrderStatus(ctx context.Context, id uint64) (*domain.StatusView, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrderStatus")
	defer span.End()

	if v, ok := u.cachedStatus(ctx, id); ok {
		return v, nil
	}
	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	v := domain.StatusView{Status: o.Status, UpdatedAt: o.UpdatedAt}
	u.cacheStatus(ctx, id, v)
	return &v, nil
}

func (u *OrderService) GetOrderById(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := u.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, orderNotFound(id)
	}
	return o, nil
}

// UpdateOrderStatus overwrites the status. Any valid status may follow any
// other; there is no transition table.
func (u *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrderStatus", trace.WithAttributes(attribute.String("status", string(status))))
	defer span.End()

	if !status.Valid() {
		return nil, ValidationError{Field: "status", Message: "invalid status value"}
	}
	if err := u.orders.UpdateStatus(ctx, id, status); err != nil {
		recordErr(span, err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, orderNotFound(id)
		}
		u.log.Error("order status update failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	u.invalidateStatus(ctx, id)

	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}
	u.log.Info("order status updated", zap.Uint64("order_id", id), zap.String("status", string(status)))
	u.publish(ctx, domain.EventOrderStatusChanged, o)
	return o, nil
}

// ReplaceOrderItems supersedes the whole line set of an order and stores the
// recomputed total. Nothing changes when any item fails to resolve.
func (u *OrderService) ReplaceOrderItems(ctx context.Context, id uint64, reqs []domain.LineRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ReplaceOrderItems")
	defer span.End()

	lines, total, err := u.resolveLines(ctx, reqs)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	if err := u.orders.ReplaceLines(ctx, id, lines, total); err != nil {
		recordErr(span, err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, orderNotFound(id)
		}
		u.log.Error("order line replacement failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	u.invalidateStatus(ctx, id)

	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}
	u.log.Info("order items replaced",
		zap.Uint64("order_id", id),
		zap.String("total", o.TotalPrice.StringFixed(2)),
		zap.Int("lines", len(o.OrderItems)))
	u.publish(ctx, domain.EventOrderItemsReplaced, o)
	return o, nil
}

// ListOrders returns every order with lines and items in creation order.
func (u *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	out, err := u.orders.List(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return out, nil
}

func (u *OrderService) Ping(ctx context.Context) error {
	if err := u.orders.Ping(ctx); err != nil {
		return err
	}
	if u.redisClient != nil {
		return u.redisClient.Ping(ctx).Err()
	}
	return nil
}

// resolveLines validates the request and resolves every item. Duplicate item
// ids stay separate lines.
func (u *OrderService) resolveLines(ctx context.Context, reqs []domain.LineRequest) ([]domain.OrderLine, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, ValidationError{Field: "items", Message: "items cannot be empty"}
	}
	for i, r := range reqs {
		if r.ItemID == 0 {
			return nil, decimal.Zero, ValidationError{Field: fieldName(i, "itemId"), Message: "item id is required"}
		}
		if r.Quantity < 1 {
			return nil, decimal.Zero, ValidationError{Field: fieldName(i, "quantity"), Message: "quantity must be at least 1"}
		}
	}

	lines := make([]domain.OrderLine, 0, len(reqs))
	for _, r := range reqs {
		it, err := u.getItemWithCache(ctx, r.ItemID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if it == nil {
			return nil, decimal.Zero, itemNotFound(r.ItemID)
		}
		lines = append(lines, domain.OrderLine{ItemID: it.ID, Item: *it, Quantity: r.Quantity})
	}
	return lines, domain.Total(lines), nil
}

func (u *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	evt := domain.OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OrderID:    o.ID,
		RoomNumber: o.RoomNumber,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		LineCount:  len(o.OrderItems),
		OccurredAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.publisher.Publish(ctx, eventType, evt); err != nil {
		u.log.Warn("event publish failed",
			zap.String("event_type", eventType),
			zap.Uint64("order_id", o.ID),
			zap.Error(err))
	}
}

func fieldName(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
