package models

// OrderStatus tracks an order through its lifecycle. INITIAL and ACCEPTED are
// open; the remaining statuses are terminal.
type OrderStatus string

const (
	OrderStatusInitial   OrderStatus = "initial"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusRejected  OrderStatus = "rejected"
)

func (status OrderStatus) IsOpen() bool {
	return status == OrderStatusInitial || status == OrderStatusAccepted
}

func (status OrderStatus) IsClosed() bool {
	return !status.IsOpen()
}

// IsAborted reports whether the order terminated without completing. Aborted
// statuses short-circuit composite-order propagation.
func (status OrderStatus) IsAborted() bool {
	return status == OrderStatusCancelled || status == OrderStatusExpired || status == OrderStatusRejected
}

// CanTransitionTo reports whether the transition is legal.
func (status OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch status {
	case OrderStatusInitial:
		return next == OrderStatusAccepted || next == OrderStatusRejected
	case OrderStatusAccepted:
		return next.IsClosed()
	default:
		return false
	}
}
