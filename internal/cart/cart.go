// Package cart is the guest's local order draft. A Cart is a value: every
// operation returns a new Cart and leaves the receiver untouched.
package cart

import (
	"roomservice/internal/domain"

	"github.com/shopspring/decimal"
)

type Line struct {
	Item     domain.Item
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in the order items were first added. total is kept
// incrementally and always equals the sum over lines.
type Cart struct {
	lines []Line
	total decimal.Decimal
}

func New() Cart {
	return Cart{total: decimal.Zero}
}

// FromOrder rebuilds a cart from a stored order's resolved lines.
func FromOrder(o domain.Order) Cart {
	lines := make([]Line, 0, len(o.OrderItems))
	for _, l := range o.OrderItems {
		lines = append(lines, Line{Item: l.Item, Quantity: l.Quantity})
	}
	return New().Replace(lines)
}

// Add increments the item's line, inserting it at quantity 1 when absent.
// A line already in the cart is priced by its first snapshot.
func (c Cart) Add(it domain.Item) Cart {
	lines := c.Lines()
	idx := indexOf(lines, it.ID)
	if idx < 0 {
		lines = append(lines, Line{Item: it, Quantity: 1})
		return Cart{lines: lines, total: c.total.Add(it.Price)}
	}
	// The line keeps the price it was first added at.
	lines[idx].Quantity++
	return Cart{lines: lines, total: c.total.Add(lines[idx].Item.Price)}
}

// Remove decrements the item's line and drops it at zero. Removing an item
// that is not in the cart is a no-op.
func (c Cart) Remove(itemID uint64) Cart {
	idx := indexOf(c.lines, itemID)
	if idx < 0 {
		return c
	}
	lines := c.Lines()
	price := lines[idx].Item.Price
	if lines[idx].Quantity > 1 {
		lines[idx].Quantity--
	} else {
		lines = append(lines[:idx], lines[idx+1:]...)
	}
	return Cart{lines: lines, total: c.total.Sub(price)}
}

// Replace swaps the whole line set. Lines with a non-positive quantity are dropped.
func (c Cart) Replace(lines []Line) Cart {
	out := make([]Line, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		out = append(out, l)
		total = total.Add(l.Subtotal())
	}
	return Cart{lines: out, total: total}
}

func (c Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c Cart) Total() decimal.Decimal {
	return c.total
}

// Recompute sums the lines from scratch.
func (c Cart) Recompute() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c Cart) Quantity(itemID uint64) int {
	if idx := indexOf(c.lines, itemID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Requests converts the cart into the lines sent to the API.
func (c Cart) Requests() []domain.LineRequest {
	out := make([]domain.LineRequest, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, domain.LineRequest{ItemID: l.Item.ID, Quantity: l.Quantity})
	}
	return out
}

func indexOf(lines []Line, itemID uint64) int {
	for i, l := range lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}
