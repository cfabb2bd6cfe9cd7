// Package client talks to the room-service HTTP API on behalf of the guest
// and staff front ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomservice/internal/domain"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createOrderBody struct {
	RoomNumber string               `json:"roomNumber"`
	Items      []domain.LineRequest `json:"items"`
}

type createOrderReply struct {
	OrderID uint64 `json:"orderId"`
	Message string `json:"message"`
}

type dashboardReply struct {
	Orders []domain.Order `json:"orders"`
}

func (c *Client) ListMenu(ctx context.Context, roomNumber string) ([]domain.Item, error) {
	var items []domain.Item
	path := "/dishes"
	if roomNumber != "" {
		path = "/menu/" + url.PathEscape(roomNumber)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateOrder returns the id the server assigned.
func (c *Client) CreateOrder(ctx context.Context, roomNumber string, lines []domain.LineRequest) (uint64, error) {
	var reply createOrderReply
	if err := c.do(ctx, http.MethodPost, "/order", createOrderBody{RoomNumber: roomNumber, Items: lines}, &reply); err != nil {
		return 0, err
	}
	return reply.OrderID, nil
}

func (c *Client) GetStatus(ctx context.Context, id uint64) (*domain.StatusView, error) {
	var view domain.StatusView
	if err := c.do(ctx, http.MethodGet, orderPath(id), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ReplaceItems(ctx context.Context, id uint64, lines []domain.LineRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPatch, orderPath(id), map[string]any{"items": lines}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPatch, orderPath(id), map[string]any{"status": status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Dashboard fetches the server-filtered order view.
func (c *Client) Dashboard(ctx context.Context, level string, completedOnly bool) ([]domain.Order, error) {
	q := url.Values{}
	if level != "" {
		q.Set("level", level)
	}
	if completedOnly {
		q.Set("completed", "true")
	}
	path := "/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var reply dashboardReply
	if err := c.do(ctx, http.MethodGet, path, nil, &reply); err != nil {
		return nil, err
	}
	return reply.Orders, nil
}

func orderPath(id uint64) string {
	return fmt.Sprintf("/order?id=%d", id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
