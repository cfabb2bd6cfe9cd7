package dashboard

import (
	"testing"

	"roomservice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rooms(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.RoomNumber)
	}
	return out
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: 1, RoomNumber: "101", Status: domain.StatusPending},
		{ID: 2, RoomNumber: "210", Status: domain.StatusPending},
		{ID: 3, RoomNumber: "305", Status: domain.StatusPending},
		{ID: 4, RoomNumber: "102", Status: domain.StatusCompleted},
		{ID: 5, RoomNumber: "220", Status: domain.StatusCanceled},
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		completed bool
		want      []string
	}{
		{"default hides completed", "", false, []string{"101", "210", "305", "220"}},
		{"all is default", "all", false, []string{"101", "210", "305", "220"}},
		{"level two", "2", false, []string{"210", "220"}},
		{"level one skips completed", "1", false, []string{"101"}},
		{"completed only", "", true, []string{"102"}},
		{"completed only ignores level", "3", true, []string{"102"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.level, tt.completed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rooms(f.Apply(sampleOrders())))
		})
	}
}

func TestFilter_LevelSelectsOnlyMatchingRoom(t *testing.T) {
	orders := sampleOrders()[:3]
	f, err := ParseFilter("2", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"210"}, rooms(f.Apply(orders)))
}

func TestParseFilter_UnknownLevel(t *testing.T) {
	_, err := ParseFilter("9", false)
	assert.Error(t, err)
}
