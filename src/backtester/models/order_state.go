package models

import (
	"fmt"
	"time"
)

// OrderState is the mutable lifecycle record associated 1:1 with an order id.
// The order itself stays an immutable specification.
type OrderState struct {
	Status   OrderStatus `json:"status"`
	OpenedAt time.Time   `json:"opened_at"`
	ClosedAt time.Time   `json:"closed_at"`
}

func (s *OrderState) IsOpen() bool {
	return s.Status.IsOpen()
}

func (s *OrderState) IsClosed() bool {
	return s.Status.IsClosed()
}

// Accept moves the order from INITIAL to ACCEPTED and records the open time.
func (s *OrderState) Accept(t time.Time) error {
	if !s.Status.CanTransitionTo(OrderStatusAccepted) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, OrderStatusAccepted)
	}

	s.Status = OrderStatusAccepted
	s.OpenedAt = t

	return nil
}

// Close moves the order into a terminal status and records the close time.
// ClosedAt is set exactly once; repeating the same terminal transition is a
// no-op, a conflicting one is an error.
func (s *OrderState) Close(status OrderStatus, t time.Time) error {
	if !status.IsClosed() {
		return fmt.Errorf("%w: %s is not a terminal status", ErrIllegalTransition, status)
	}

	if s.Status.IsClosed() {
		if s.Status == status {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, status)
	}

	if !s.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, status)
	}

	s.Status = status
	s.ClosedAt = t

	return nil
}

func NewOrderState() *OrderState {
	return &OrderState{Status: OrderStatusInitial}
}
