package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"roomservice/internal/domain"
)

const actionGetStatus = "getStatus"

// orderAction is decoded first to route POST /order.
type orderAction struct {
	Action string `json:"action"`
}

type CreateOrderRequest struct {
	RoomNumber string               `json:"roomNumber" binding:"required"`
	Items      []domain.LineRequest `json:"items" binding:"required,min=1,dive"`
}

type StatusCheckRequest struct {
	Action  string     `json:"action"`
	OrderID FlexibleID `json:"orderId" binding:"required"`
}

// UpdateOrderRequest carries either a status change or a full line set.
type UpdateOrderRequest struct {
	Status *domain.OrderStatus   `json:"status"`
	Items  *[]domain.LineRequest `json:"items"`
}

type CreateOrderResponse struct {
	OrderID uint64 `json:"orderId"`
	Message string `json:"message"`
}

type DashboardResponse struct {
	Level         string         `json:"level"`
	CompletedOnly bool           `json:"completedOnly"`
	Levels        []string       `json:"levels"`
	Orders        []domain.Order `json:"orders"`
}

// FlexibleID accepts an id as a JSON number or a numeric string.
type FlexibleID uint64

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", string(b))
	}
	*f = FlexibleID(id)
	return nil
}
