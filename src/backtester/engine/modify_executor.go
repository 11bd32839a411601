package engine

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
)

// cancelExecutor resolves its target in the live registry and cancels it.
// An unknown or already-closed target rejects the cancel order instead.
type cancelExecutor struct {
	order *models.CancelOrder
	state *models.OrderState
}

func (e *cancelExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *cancelExecutor) Order() models.Order {
	return e.order
}

func (e *cancelExecutor) State() *models.OrderState {
	return e.state
}

func (e *cancelExecutor) Execute(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	target := reg.Get(e.order.TargetID)
	if target == nil || target.State().IsClosed() {
		log.Warnf("cancel order %d: target order %d not found or already closed", e.order.ID, e.order.TargetID)
		e.close(models.OrderStatusRejected, t)
		return
	}

	if err := target.Cancel(reg, t); err != nil {
		log.Warnf("cancel order %d: %v", e.order.ID, err)
		e.close(models.OrderStatusRejected, t)
		return
	}

	e.close(models.OrderStatusCompleted, t)
}

func (e *cancelExecutor) close(status models.OrderStatus, t time.Time) {
	if err := e.state.Close(status, t); err != nil {
		log.Errorf("cancel order %d: %v", e.order.ID, err)
	}
}

func newCancelExecutor(order *models.CancelOrder) *cancelExecutor {
	return &cancelExecutor{
		order: order,
		state: models.NewOrderState(),
	}
}

// updateExecutor resolves its target and applies new size/price parameters.
type updateExecutor struct {
	order *models.UpdateOrder
	state *models.OrderState
}

func (e *updateExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *updateExecutor) Order() models.Order {
	return e.order
}

func (e *updateExecutor) State() *models.OrderState {
	return e.state
}

func (e *updateExecutor) Execute(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	target := reg.Get(e.order.TargetID)
	if target == nil || target.State().IsClosed() {
		log.Warnf("update order %d: target order %d not found or already closed", e.order.ID, e.order.TargetID)
		e.close(models.OrderStatusRejected, t)
		return
	}

	if err := target.Update(reg, e.order, t); err != nil {
		log.Warnf("update order %d: %v", e.order.ID, err)
		e.close(models.OrderStatusRejected, t)
		return
	}

	e.close(models.OrderStatusCompleted, t)
}

func (e *updateExecutor) close(status models.OrderStatus, t time.Time) {
	if err := e.state.Close(status, t); err != nil {
		log.Errorf("update order %d: %v", e.order.ID, err)
	}
}

func newUpdateExecutor(order *models.UpdateOrder) *updateExecutor {
	return &updateExecutor{
		order: order,
		state: models.NewOrderState(),
	}
}
