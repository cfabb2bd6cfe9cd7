package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in-progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCanceled   OrderStatus = "canceled"
)

// Statuses lists every value the store accepts, in workflow order.
var Statuses = []OrderStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCanceled}

func (s OrderStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Locked reports whether a guest may no longer edit an order in this status.
func (s OrderStatus) Locked() bool {
	return s == StatusInProgress || s == StatusCompleted || s == StatusCanceled
}

type Item struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Course      *string         `json:"course" gorm:"size:64"`
	ImagePath   *string         `json:"imagePath" gorm:"size:512"`
}

type Order struct {
	ID         uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomNumber string          `json:"roomNumber" gorm:"size:32;not null;index"`
	Status     OrderStatus     `json:"status" gorm:"size:16;not null;default:'pending'"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
	OrderItems []OrderLine     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine is owned by its order and only ever replaced as a set.
type OrderLine struct {
	ID       uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID  uint64 `json:"orderId" gorm:"not null;index"`
	ItemID   uint64 `json:"itemId" gorm:"not null;index"`
	Item     Item   `json:"item" gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Quantity int    `json:"quantity" gorm:"not null"`
}

func (OrderLine) TableName() string { return "order_items" }

// LineRequest is one requested (item, quantity) pair before resolution.
type LineRequest struct {
	ItemID   uint64 `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type StatusView struct {
	Status    OrderStatus `json:"status"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Total sums price times quantity over the lines' resolved items.
func Total(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Clone returns a deep copy so callers cannot alias stored lines.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.OrderItems = append([]OrderLine(nil), o.OrderItems...)
	return &c
}
