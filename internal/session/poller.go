package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// startPollingLocked runs a single poller for the current order. The first
// check happens immediately; ticks that fire while a check is pending are
// dropped, so at most one request is ever in flight.
func (s *Session) startPollingLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.pollCancel = cancel
	s.pollDone = done
	s.polling = true
	go s.pollLoop(ctx, s.orderID, done)
}

func (s *Session) pollLoop(ctx context.Context, id uint64, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.pollOnce(ctx, id) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce reports whether polling should continue.
func (s *Session) pollOnce(ctx context.Context, id uint64) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	view, err := s.api.GetStatus(callCtx, id)
	cancel()
	if ctx.Err() != nil {
		return false
	}

	s.mu.Lock()
	keepGoing := true
	switch {
	case err != nil:
		s.log.Warn("status poll failed, polling stopped", zap.Uint64("order_id", id), zap.Error(err))
		s.message = "Failed to fetch order status"
		keepGoing = false
	case view.Status.Locked():
		s.status = view
		s.state = Locked
		s.message = fmt.Sprintf("Order Status: %s (Last Updated: %s)", view.Status, view.UpdatedAt.Local().Format(time.Kitchen))
		keepGoing = false
	default:
		s.status = view
		s.message = fmt.Sprintf("Order Status: %s - You can still modify your order (Last Updated: %s)", view.Status, view.UpdatedAt.Local().Format(time.Kitchen))
	}
	if !keepGoing {
		s.polling = false
	}
	snap := s.snapshotLocked()
	hook := s.onPoll
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return keepGoing
}
