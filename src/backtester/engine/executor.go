package engine

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// TradeOrderExecutor drives one trade order (or composite order) against the
// pricing of a single tick. Executors mutate only their own order state;
// composite executors reach their children through the shared registry.
type TradeOrderExecutor interface {
	OrderID() uint64
	Order() models.Order
	Asset() eventmodels.Asset
	State() *models.OrderState

	// Execute evaluates the order against this tick's pricing and returns
	// any fills it produced.
	Execute(reg *ExecutorRegistry, p pricing.Pricing, t time.Time) []models.Execution

	// Cancel closes the order (and any children) as CANCELLED.
	Cancel(reg *ExecutorRegistry, t time.Time) error

	// Update applies new size/price parameters to a still-open order.
	Update(reg *ExecutorRegistry, update *models.UpdateOrder, t time.Time) error

	// Expire applies the time-in-force policy at the top of a tick.
	Expire(reg *ExecutorRegistry, t time.Time)
}

// ModifyOrderExecutor executes a cancel or update order against the live
// executor set. Modify orders run before trade orders and do not require a
// price for the underlying asset.
type ModifyOrderExecutor interface {
	OrderID() uint64
	Order() models.Order
	State() *models.OrderState
	Execute(reg *ExecutorRegistry, t time.Time)
}

// ExecutorRegistry is the arena of live trade-order executors, keyed by order
// id. Composite executors store child ids and look the children up here, so
// no executor owns another.
type ExecutorRegistry struct {
	executors map[uint64]TradeOrderExecutor
	topLevel  []uint64
}

// Add registers an executor. Only top-level executors are evaluated directly
// by the execution engine; children are driven by their parent.
func (r *ExecutorRegistry) Add(executor TradeOrderExecutor, isTopLevel bool) bool {
	id := executor.OrderID()
	if _, exists := r.executors[id]; exists {
		return false
	}

	r.executors[id] = executor
	if isTopLevel {
		r.topLevel = append(r.topLevel, id)
	}

	return true
}

// Remove drops an executor from the arena, top-level or not.
func (r *ExecutorRegistry) Remove(id uint64) {
	delete(r.executors, id)

	for i, topID := range r.topLevel {
		if topID == id {
			r.topLevel = append(r.topLevel[:i], r.topLevel[i+1:]...)
			break
		}
	}
}

func (r *ExecutorRegistry) Get(id uint64) TradeOrderExecutor {
	return r.executors[id]
}

func (r *ExecutorRegistry) Contains(id uint64) bool {
	_, found := r.executors[id]
	return found
}

// TopLevel returns the top-level executors in insertion order.
func (r *ExecutorRegistry) TopLevel() []TradeOrderExecutor {
	result := make([]TradeOrderExecutor, 0, len(r.topLevel))
	for _, id := range r.topLevel {
		if executor, found := r.executors[id]; found {
			result = append(result, executor)
		}
	}

	return result
}

// RemoveClosed drops every executor whose top-level order reached a terminal
// state, including the children of closed composites, and returns the closed
// entries in insertion order.
func (r *ExecutorRegistry) RemoveClosed() []models.OrderEntry {
	var closed []models.OrderEntry
	var stillOpen []uint64

	for _, id := range r.topLevel {
		executor, found := r.executors[id]
		if !found {
			continue
		}

		if executor.State().IsClosed() {
			closed = append(closed, models.OrderEntry{Order: executor.Order(), State: *executor.State()})
			delete(r.executors, id)

			if parent, ok := executor.(compositeExecutor); ok {
				for _, childID := range parent.ChildIDs() {
					if child, found := r.executors[childID]; found {
						closed = append(closed, models.OrderEntry{Order: child.Order(), State: *child.State()})
						delete(r.executors, childID)
					}
				}
			}
		} else {
			stillOpen = append(stillOpen, id)
		}
	}

	r.topLevel = stillOpen

	return closed
}

// compositeExecutor is implemented by executors that drive child orders.
type compositeExecutor interface {
	ChildIDs() []uint64
}

func NewExecutorRegistry() *ExecutorRegistry {
	return &ExecutorRegistry{
		executors: make(map[uint64]TradeOrderExecutor),
	}
}
