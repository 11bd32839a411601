package engine

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// ExecutionEngine orchestrates all live order executors for one tick. The
// evaluation order is fixed: expiration sweep, modify orders, trade orders,
// cleanup. A cancel submitted in the same tick as a potential fill therefore
// always wins.
type ExecutionEngine struct {
	registry *ExecutorRegistry
	modify   []ModifyOrderExecutor
	closed   []models.OrderEntry
}

// AddOrder registers a new order and accepts it. Composite orders register
// their legs as child executors reachable through the registry.
func (e *ExecutionEngine) AddOrder(order models.Order, t time.Time) error {
	switch o := order.(type) {
	case *models.SingleOrder:
		return e.addTradeExecutor(newSingleOrderExecutor(o), true, t)

	case *models.BracketOrder:
		return e.addComposite([]*models.SingleOrder{o.Entry, o.TakeProfit, o.StopLoss}, newBracketExecutor(o), t)

	case *models.OCOOrder:
		return e.addComposite([]*models.SingleOrder{o.First, o.Second}, newOCOExecutor(o), t)

	case *models.OTOOrder:
		return e.addComposite([]*models.SingleOrder{o.First, o.Second}, newOTOExecutor(o), t)

	case *models.CancelOrder:
		executor := newCancelExecutor(o)
		if err := executor.State().Accept(t); err != nil {
			return err
		}
		e.modify = append(e.modify, executor)
		return nil

	case *models.UpdateOrder:
		if err := o.Validate(); err != nil {
			return err
		}
		executor := newUpdateExecutor(o)
		if err := executor.State().Accept(t); err != nil {
			return err
		}
		e.modify = append(e.modify, executor)
		return nil

	default:
		return fmt.Errorf("%w: %T", models.ErrUnsupportedOrderType, order)
	}
}

// addComposite registers the legs as children and the composite as top-level.
// A failure on any registration unwinds the legs added before it, so no
// orphan children survive a rejected composite.
func (e *ExecutionEngine) addComposite(legs []*models.SingleOrder, composite TradeOrderExecutor, t time.Time) error {
	var added []uint64

	rollback := func() {
		for _, id := range added {
			e.registry.Remove(id)
		}
	}

	for _, leg := range legs {
		if err := e.addTradeExecutor(newSingleOrderExecutor(leg), false, t); err != nil {
			rollback()
			return err
		}
		added = append(added, leg.ID)
	}

	if err := e.addTradeExecutor(composite, true, t); err != nil {
		rollback()
		return err
	}

	return nil
}

func (e *ExecutionEngine) addTradeExecutor(executor TradeOrderExecutor, isTopLevel bool, t time.Time) error {
	if !e.registry.Add(executor, isTopLevel) {
		return fmt.Errorf("order %d already registered", executor.OrderID())
	}

	return executor.State().Accept(t)
}

// RunTick processes one event against all live orders and returns the fills,
// in deterministic evaluation order.
func (e *ExecutionEngine) RunTick(pricings map[eventmodels.Asset]pricing.Pricing, t time.Time) []models.Execution {
	// 1. expiration sweep before any matching
	for _, executor := range e.registry.TopLevel() {
		executor.Expire(e.registry, t)
	}

	// 2. modify orders run first and need no price
	for _, executor := range e.modify {
		executor.Execute(e.registry, t)
		e.closed = append(e.closed, models.OrderEntry{Order: executor.Order(), State: *executor.State()})
	}
	e.modify = e.modify[:0]

	// 3. trade orders, only those whose asset has a price this tick
	var executions []models.Execution
	for _, executor := range e.registry.TopLevel() {
		if executor.State().IsClosed() {
			continue
		}

		p, found := pricings[executor.Asset()]
		if !found {
			continue
		}

		fills := executor.Execute(e.registry, p, t)
		if len(fills) > 0 {
			log.Debugf("order %d (%s) produced %d execution(s)", executor.OrderID(), models.DescribeOrder(executor.Order()), len(fills))
		}

		executions = append(executions, fills...)
	}

	// 4. cleanup closed orders out of the live set
	e.closed = append(e.closed, e.registry.RemoveClosed()...)

	return executions
}

// OpenOrders returns the live top-level orders with their current state.
func (e *ExecutionEngine) OpenOrders() []models.OrderEntry {
	executors := e.registry.TopLevel()
	result := make([]models.OrderEntry, 0, len(executors))
	for _, executor := range executors {
		result = append(result, models.OrderEntry{Order: executor.Order(), State: *executor.State()})
	}

	return result
}

// TakeClosedOrders drains the orders closed since the last call.
func (e *ExecutionEngine) TakeClosedOrders() []models.OrderEntry {
	closed := e.closed
	e.closed = nil
	return closed
}

// Registry exposes the live executor arena.
func (e *ExecutionEngine) Registry() *ExecutorRegistry {
	return e.registry
}

// Clear resets the engine to an empty live set.
func (e *ExecutionEngine) Clear() {
	e.registry = NewExecutorRegistry()
	e.modify = nil
	e.closed = nil
}

func NewExecutionEngine() *ExecutionEngine {
	return &ExecutionEngine{
		registry: NewExecutorRegistry(),
	}
}
