package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roomservice/internal/domain"
	"roomservice/internal/mocks"
	"roomservice/internal/repository/memory"
	"roomservice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	course := "main"
	require.NoError(t, store.Items().SaveBatch(context.Background(), []domain.Item{
		{ID: 1, Name: "Caesar Salad", Price: decimal.RequireFromString("7.99")},
		{ID: 2, Name: "Tomato Soup", Price: decimal.RequireFromString("5.50")},
		{ID: 3, Name: "Grilled Salmon", Price: decimal.RequireFromString("18.99"), Course: &course},
	}))

	orders := services.NewOrderService(store.Orders(), store.Items(), nil, nil)
	catalog := services.NewCatalogService(store.Items())
	r := gin.New()
	NewHandler(orders, catalog, nil, time.Second).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func createOrder(t *testing.T, r http.Handler, room string, items ...domain.LineRequest) uint64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/order", gin.H{"roomNumber": room, "items": items})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order created successfully", resp.Message)
	return resp.OrderID
}

func TestHandler_ListMenu(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/dishes", "/menu/101"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []domain.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		assert.Len(t, items, 3, path)
	}

	w := doJSON(t, r, http.MethodGet, "/dishes/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var item domain.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Grilled Salmon", item.Name)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/dishes/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/dishes/abc", nil).Code)
}

func TestHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name:       "created",
			body:       gin.H{"roomNumber": "101", "items": []gin.H{{"itemId": 1, "quantity": 2}}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing room",
			body:       gin.H{"items": []gin.H{{"itemId": 1, "quantity": 2}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty items",
			body:       gin.H{"roomNumber": "101", "items": []gin.H{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero quantity",
			body:       gin.H{"roomNumber": "101", "items": []gin.H{{"itemId": 1, "quantity": 0}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown item",
			body:       gin.H{"roomNumber": "101", "items": []gin.H{{"itemId": 99, "quantity": 1}}},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRouter(t)
			w := doJSON(t, r, http.MethodPost, "/order", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandler_OrderStatus(t *testing.T) {
	r := testRouter(t)
	id := createOrder(t, r, "101", domain.LineRequest{ItemID: 1, Quantity: 1})

	t.Run("query", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/order?id=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var view domain.StatusView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, domain.StatusPending, view.Status)
		assert.False(t, view.UpdatedAt.IsZero())
	})

	t.Run("action with numeric and string ids", func(t *testing.T) {
		for _, orderID := range []any{id, "1"} {
			w := doJSON(t, r, http.MethodPost, "/order", gin.H{"action": "getStatus", "orderId": orderID})
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("action without id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/order", gin.H{"action": "getStatus"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Order ID is required for status check", errorOf(t, w))
	})

	t.Run("missing id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/order", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Order ID is required", errorOf(t, w))
	})

	t.Run("unknown order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/order?id=999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Order not found", errorOf(t, w))
	})
}

func TestHandler_UpdateOrder(t *testing.T) {
	r := testRouter(t)
	createOrder(t, r, "101", domain.LineRequest{ItemID: 1, Quantity: 1})

	t.Run("replace items", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/order?id=1", gin.H{"items": []gin.H{
			{"itemId": 2, "quantity": 2},
			{"itemId": 3, "quantity": 1},
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var order domain.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.True(t, decimal.RequireFromString("29.99").Equal(order.TotalPrice))
		require.Len(t, order.OrderItems, 2)
		assert.Equal(t, "Tomato Soup", order.OrderItems[0].Item.Name)
	})

	t.Run("status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/order?id=1", gin.H{"status": "in-progress"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var order domain.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, domain.StatusInProgress, order.Status)
		assert.NotEmpty(t, order.OrderItems)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/order?id=1", gin.H{"status": "delivered"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/order?id=1", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid update request", errorOf(t, w))
	})

	t.Run("unknown order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/order?id=7", gin.H{"status": "completed"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Dashboard(t *testing.T) {
	r := testRouter(t)
	for _, room := range []string{"101", "210", "305"} {
		createOrder(t, r, room, domain.LineRequest{ItemID: 1, Quantity: 1})
	}
	w := doJSON(t, r, http.MethodPatch, "/order?id=1", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	rooms := func(path string) []string {
		w := doJSON(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp DashboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		out := []string{}
		for _, o := range resp.Orders {
			out = append(out, o.RoomNumber)
		}
		return out
	}

	assert.Equal(t, []string{"210", "305"}, rooms("/"))
	assert.Equal(t, []string{"210"}, rooms("/?level=2"))
	assert.Equal(t, []string{"101"}, rooms("/?completed=true"))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/?level=7", nil).Code)

	w = doJSON(t, r, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)
}

func TestHandler_PersistenceErrorIsGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockOrders := new(mocks.MockOrderRepository)
	mockItems := new(mocks.MockItemRepository)
	mockOrders.On("List", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))
	mockOrders.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused"))

	r := gin.New()
	NewHandler(services.NewOrderService(mockOrders, mockItems, nil, nil), services.NewCatalogService(mockItems), nil, time.Second).RegisterRoutes(r)

	w := doJSON(t, r, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch orders", errorOf(t, w))

	w = doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := doJSON(t, r, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(requestIDHeader))
}
