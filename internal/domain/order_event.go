package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderItemsReplaced = "order.items_replaced"
)

type OrderEvent struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OrderID    uint64          `json:"orderId"`
	RoomNumber string          `json:"roomNumber"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	LineCount  int             `json:"lineCount"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// PartitionKey keeps all events of one order on the same partition.
func (e OrderEvent) PartitionKey() []byte {
	return []byte(strconv.FormatUint(e.OrderID, 10))
}
