// Package dashboard holds the staff view over all orders: which orders are
// shown under a filter, and per-row status updates.
package dashboard

import (
	"fmt"
	"strings"

	"roomservice/internal/domain"
)

// Levels are the floor codes a room number may start with.
var Levels = []string{"1", "2", "3"}

// AllLevels selects every floor.
const AllLevels = "all"

type Filter struct {
	Level         string `json:"level"`
	CompletedOnly bool   `json:"completedOnly"`
}

// ParseFilter normalizes the level; "" and "all" mean no level filter.
func ParseFilter(level string, completedOnly bool) (Filter, error) {
	level = strings.TrimSpace(level)
	if level == AllLevels {
		level = ""
	}
	if level != "" && !knownLevel(level) {
		return Filter{}, fmt.Errorf("unknown level %q", level)
	}
	return Filter{Level: level, CompletedOnly: completedOnly}, nil
}

func knownLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Match reports whether o is visible. Completed-only wins over the level;
// otherwise completed orders are hidden.
func (f Filter) Match(o domain.Order) bool {
	if f.CompletedOnly {
		return o.Status == domain.StatusCompleted
	}
	if o.Status == domain.StatusCompleted {
		return false
	}
	return f.Level == "" || strings.HasPrefix(o.RoomNumber, f.Level)
}

func (f Filter) Apply(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}
