package engine

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// bracketExecutor runs the entry leg first; the exit legs activate only once
// the entry completed. The first exit to fill cancels the other, and exit
// sizes stay reconciled with the entry's filled size.
type bracketExecutor struct {
	order *models.BracketOrder
	state *models.OrderState

	entryID      uint64
	takeProfitID uint64
	stopLossID   uint64

	exitsActive bool
}

func (e *bracketExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *bracketExecutor) Order() models.Order {
	return e.order
}

func (e *bracketExecutor) Asset() eventmodels.Asset {
	return e.order.Entry.Asset
}

func (e *bracketExecutor) State() *models.OrderState {
	return e.state
}

func (e *bracketExecutor) ChildIDs() []uint64 {
	return []uint64{e.entryID, e.takeProfitID, e.stopLossID}
}

func (e *bracketExecutor) children(reg *ExecutorRegistry) (entry, takeProfit, stopLoss *singleOrderExecutor, err error) {
	entry, err = lookupSingle(reg, e.entryID)
	if err != nil {
		return
	}

	takeProfit, err = lookupSingle(reg, e.takeProfitID)
	if err != nil {
		return
	}

	stopLoss, err = lookupSingle(reg, e.stopLossID)
	return
}

func (e *bracketExecutor) Cancel(reg *ExecutorRegistry, t time.Time) error {
	entry, takeProfit, stopLoss, err := e.children(reg)
	if err != nil {
		return err
	}

	for _, child := range []*singleOrderExecutor{entry, takeProfit, stopLoss} {
		if child.State().IsOpen() {
			if err := child.Cancel(reg, t); err != nil {
				return err
			}
		}
	}

	return e.state.Close(models.OrderStatusCancelled, t)
}

func (e *bracketExecutor) Update(reg *ExecutorRegistry, update *models.UpdateOrder, t time.Time) error {
	return fmt.Errorf("bracket order %d cannot be updated directly, update its legs", e.order.ID)
}

func (e *bracketExecutor) Expire(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	entry, takeProfit, stopLoss, err := e.children(reg)
	if err != nil {
		log.Errorf("Expire: bracket %d: %v", e.order.ID, err)
		return
	}

	entry.Expire(reg, t)
	if e.exitsActive {
		takeProfit.Expire(reg, t)
		stopLoss.Expire(reg, t)
	}
}

func (e *bracketExecutor) Execute(reg *ExecutorRegistry, p pricing.Pricing, t time.Time) []models.Execution {
	if e.state.IsClosed() {
		return nil
	}

	entry, takeProfit, stopLoss, err := e.children(reg)
	if err != nil {
		log.Errorf("Execute: bracket %d: %v", e.order.ID, err)
		return nil
	}

	var executions []models.Execution

	if entry.State().IsOpen() {
		executions = append(executions, entry.Execute(reg, p, t)...)
	}

	entryStatus := entry.State().Status
	if entryStatus.IsAborted() {
		// entry never completed, the exits must not activate
		e.closeSiblings(reg, t, takeProfit, stopLoss)
		if err := e.state.Close(entryStatus, t); err != nil {
			log.Errorf("Execute: bracket %d: %v", e.order.ID, err)
		}
		return executions
	}

	if entryStatus != models.OrderStatusCompleted {
		return executions
	}

	if !e.exitsActive {
		e.exitsActive = true
	}

	// keep the exits balanced with what the entry actually filled
	exitSize := entry.Filled().Neg()
	for _, exit := range []*singleOrderExecutor{takeProfit, stopLoss} {
		if exit.State().IsOpen() {
			exit.setTargetSize(exitSize)
		}
	}

	executions = append(executions, e.executeExits(reg, p, t, takeProfit, stopLoss)...)

	if e.state.IsOpen() && takeProfit.State().IsClosed() && stopLoss.State().IsClosed() {
		// both exits expired or were cancelled externally
		status := abortStatus(takeProfit.State().Status, stopLoss.State().Status)
		if err := e.state.Close(status, t); err != nil {
			log.Errorf("Execute: bracket %d: %v", e.order.ID, err)
		}
	}

	return executions
}

func (e *bracketExecutor) executeExits(reg *ExecutorRegistry, p pricing.Pricing, t time.Time, takeProfit, stopLoss *singleOrderExecutor) []models.Execution {
	var executions []models.Execution

	exits := []*singleOrderExecutor{takeProfit, stopLoss}
	for i, exit := range exits {
		if !exit.State().IsOpen() {
			continue
		}

		fills := exit.Execute(reg, p, t)
		if len(fills) == 0 {
			continue
		}

		executions = append(executions, fills...)

		// the first exit to fill wins, the sibling is cancelled
		sibling := exits[1-i]
		if sibling.State().IsOpen() {
			if err := sibling.Cancel(reg, t); err != nil {
				log.Errorf("executeExits: bracket %d: %v", e.order.ID, err)
			}
		}

		e.settle(t, exit)
		break
	}

	return executions
}

// settle closes the bracket once its winning exit leg reached a terminal
// state.
func (e *bracketExecutor) settle(t time.Time, winner *singleOrderExecutor) {
	status := winner.State().Status
	if status.IsOpen() {
		return
	}

	if err := e.state.Close(status, t); err != nil {
		log.Errorf("settle: bracket %d: %v", e.order.ID, err)
	}
}

func (e *bracketExecutor) closeSiblings(reg *ExecutorRegistry, t time.Time, siblings ...*singleOrderExecutor) {
	for _, sibling := range siblings {
		if sibling.State().IsOpen() {
			if err := sibling.Cancel(reg, t); err != nil {
				log.Errorf("closeSiblings: bracket %d: %v", e.order.ID, err)
			}
		}
	}
}

func newBracketExecutor(order *models.BracketOrder) *bracketExecutor {
	return &bracketExecutor{
		order:        order,
		state:        models.NewOrderState(),
		entryID:      order.Entry.ID,
		takeProfitID: order.TakeProfit.ID,
		stopLossID:   order.StopLoss.ID,
	}
}

// ocoExecutor evaluates both legs each tick; the instant one leg produces an
// execution the other is cancelled and no further evaluation occurs.
type ocoExecutor struct {
	order *models.OCOOrder
	state *models.OrderState

	firstID  uint64
	secondID uint64
}

func (e *ocoExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *ocoExecutor) Order() models.Order {
	return e.order
}

func (e *ocoExecutor) Asset() eventmodels.Asset {
	return e.order.First.Asset
}

func (e *ocoExecutor) State() *models.OrderState {
	return e.state
}

func (e *ocoExecutor) ChildIDs() []uint64 {
	return []uint64{e.firstID, e.secondID}
}

func (e *ocoExecutor) Cancel(reg *ExecutorRegistry, t time.Time) error {
	for _, id := range e.ChildIDs() {
		child, err := lookupSingle(reg, id)
		if err != nil {
			return err
		}

		if child.State().IsOpen() {
			if err := child.Cancel(reg, t); err != nil {
				return err
			}
		}
	}

	return e.state.Close(models.OrderStatusCancelled, t)
}

func (e *ocoExecutor) Update(reg *ExecutorRegistry, update *models.UpdateOrder, t time.Time) error {
	return fmt.Errorf("oco order %d cannot be updated directly, update its legs", e.order.ID)
}

func (e *ocoExecutor) Expire(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	for _, id := range e.ChildIDs() {
		child, err := lookupSingle(reg, id)
		if err != nil {
			log.Errorf("Expire: oco %d: %v", e.order.ID, err)
			return
		}
		child.Expire(reg, t)
	}
}

func (e *ocoExecutor) Execute(reg *ExecutorRegistry, p pricing.Pricing, t time.Time) []models.Execution {
	if e.state.IsClosed() {
		return nil
	}

	first, err := lookupSingle(reg, e.firstID)
	if err != nil {
		log.Errorf("Execute: oco %d: %v", e.order.ID, err)
		return nil
	}

	second, err := lookupSingle(reg, e.secondID)
	if err != nil {
		log.Errorf("Execute: oco %d: %v", e.order.ID, err)
		return nil
	}

	legs := []*singleOrderExecutor{first, second}
	for i, leg := range legs {
		if !leg.State().IsOpen() {
			continue
		}

		fills := leg.Execute(reg, p, t)
		if len(fills) == 0 {
			continue
		}

		sibling := legs[1-i]
		if sibling.State().IsOpen() {
			if err := sibling.Cancel(reg, t); err != nil {
				log.Errorf("Execute: oco %d: %v", e.order.ID, err)
			}
		}

		// no further evaluation for either leg: a partially filled winner
		// keeps its fills but stops working
		status := leg.State().Status
		if status.IsOpen() {
			if err := leg.Cancel(reg, t); err != nil {
				log.Errorf("Execute: oco %d: %v", e.order.ID, err)
			}
			status = leg.State().Status
		}

		if err := e.state.Close(status, t); err != nil {
			log.Errorf("Execute: oco %d: %v", e.order.ID, err)
		}

		return fills
	}

	if !first.State().IsOpen() && !second.State().IsOpen() {
		// both legs expired or were cancelled without ever executing
		status := abortStatus(first.State().Status, second.State().Status)
		if err := e.state.Close(status, t); err != nil {
			log.Errorf("Execute: oco %d: %v", e.order.ID, err)
		}
	}

	return nil
}

func newOCOExecutor(order *models.OCOOrder) *ocoExecutor {
	return &ocoExecutor{
		order:    order,
		state:    models.NewOrderState(),
		firstID:  order.First.ID,
		secondID: order.Second.ID,
	}
}

// otoExecutor evaluates the first leg until it completes; only then does the
// second leg start. An aborted first leg means the second never activates.
type otoExecutor struct {
	order *models.OTOOrder
	state *models.OrderState

	firstID  uint64
	secondID uint64

	secondActive bool
}

func (e *otoExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *otoExecutor) Order() models.Order {
	return e.order
}

func (e *otoExecutor) Asset() eventmodels.Asset {
	return e.order.First.Asset
}

func (e *otoExecutor) State() *models.OrderState {
	return e.state
}

func (e *otoExecutor) ChildIDs() []uint64 {
	return []uint64{e.firstID, e.secondID}
}

func (e *otoExecutor) Cancel(reg *ExecutorRegistry, t time.Time) error {
	for _, id := range e.ChildIDs() {
		child, err := lookupSingle(reg, id)
		if err != nil {
			return err
		}

		if child.State().IsOpen() {
			if err := child.Cancel(reg, t); err != nil {
				return err
			}
		}
	}

	return e.state.Close(models.OrderStatusCancelled, t)
}

func (e *otoExecutor) Update(reg *ExecutorRegistry, update *models.UpdateOrder, t time.Time) error {
	return fmt.Errorf("oto order %d cannot be updated directly, update its legs", e.order.ID)
}

func (e *otoExecutor) Expire(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	first, err := lookupSingle(reg, e.firstID)
	if err != nil {
		log.Errorf("Expire: oto %d: %v", e.order.ID, err)
		return
	}

	first.Expire(reg, t)

	if e.secondActive {
		second, err := lookupSingle(reg, e.secondID)
		if err != nil {
			log.Errorf("Expire: oto %d: %v", e.order.ID, err)
			return
		}
		second.Expire(reg, t)
	}
}

func (e *otoExecutor) Execute(reg *ExecutorRegistry, p pricing.Pricing, t time.Time) []models.Execution {
	if e.state.IsClosed() {
		return nil
	}

	first, err := lookupSingle(reg, e.firstID)
	if err != nil {
		log.Errorf("Execute: oto %d: %v", e.order.ID, err)
		return nil
	}

	second, err := lookupSingle(reg, e.secondID)
	if err != nil {
		log.Errorf("Execute: oto %d: %v", e.order.ID, err)
		return nil
	}

	var executions []models.Execution

	if !e.secondActive {
		if first.State().IsOpen() {
			executions = append(executions, first.Execute(reg, p, t)...)
		}

		firstStatus := first.State().Status
		if firstStatus.IsAborted() {
			if second.State().IsOpen() {
				if err := second.Cancel(reg, t); err != nil {
					log.Errorf("Execute: oto %d: %v", e.order.ID, err)
				}
			}

			if err := e.state.Close(firstStatus, t); err != nil {
				log.Errorf("Execute: oto %d: %v", e.order.ID, err)
			}
			return executions
		}

		if firstStatus != models.OrderStatusCompleted {
			return executions
		}

		e.secondActive = true
	}

	if second.State().IsOpen() {
		executions = append(executions, second.Execute(reg, p, t)...)
	}

	if status := second.State().Status; status.IsClosed() {
		if err := e.state.Close(status, t); err != nil {
			log.Errorf("Execute: oto %d: %v", e.order.ID, err)
		}
	}

	return executions
}

func newOTOExecutor(order *models.OTOOrder) *otoExecutor {
	return &otoExecutor{
		order:    order,
		state:    models.NewOrderState(),
		firstID:  order.First.ID,
		secondID: order.Second.ID,
	}
}

// abortStatus folds the terminal statuses of two dead legs into the status of
// their composite. Matching statuses propagate as-is; a mix means the last
// working leg expired.
func abortStatus(a models.OrderStatus, b models.OrderStatus) models.OrderStatus {
	if a == b {
		return a
	}

	return models.OrderStatusExpired
}

func lookupSingle(reg *ExecutorRegistry, id uint64) (*singleOrderExecutor, error) {
	executor := reg.Get(id)
	if executor == nil {
		return nil, fmt.Errorf("executor for order %d not found in registry", id)
	}

	single, ok := executor.(*singleOrderExecutor)
	if !ok {
		return nil, fmt.Errorf("order %d is not a single order", id)
	}

	return single, nil
}
