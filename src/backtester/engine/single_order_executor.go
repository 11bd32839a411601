package engine

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// singleOrderExecutor matches one market/limit/stop/stop-limit/trail/
// trail-limit order against tick pricing. The target size starts at the
// order's size and may shrink through updates or bracket reconciliation.
type singleOrderExecutor struct {
	order  *models.SingleOrder
	state  *models.OrderState
	target models.Size
	filled models.Size

	limit *float64
	stop  *float64

	stopTriggered bool
	trailExtreme  float64
}

func (e *singleOrderExecutor) OrderID() uint64 {
	return e.order.ID
}

func (e *singleOrderExecutor) Order() models.Order {
	return e.order
}

func (e *singleOrderExecutor) Asset() eventmodels.Asset {
	return e.order.Asset
}

func (e *singleOrderExecutor) State() *models.OrderState {
	return e.state
}

func (e *singleOrderExecutor) Filled() models.Size {
	return e.filled
}

func (e *singleOrderExecutor) Remaining() models.Size {
	return e.target.Sub(e.filled)
}

// setTargetSize reconciles the executor's target fill size. Used by bracket
// executors to keep exit legs balanced with the entry's filled size.
func (e *singleOrderExecutor) setTargetSize(size models.Size) {
	e.target = size
}

func (e *singleOrderExecutor) Cancel(reg *ExecutorRegistry, t time.Time) error {
	return e.state.Close(models.OrderStatusCancelled, t)
}

func (e *singleOrderExecutor) Update(reg *ExecutorRegistry, update *models.UpdateOrder, t time.Time) error {
	if e.state.IsClosed() {
		return fmt.Errorf("order %d is closed", e.order.ID)
	}

	if update.NewSize != nil {
		if update.NewSize.Sign() != e.target.Sign() {
			return fmt.Errorf("update cannot flip the direction of order %d", e.order.ID)
		}

		if update.NewSize.Abs().Float64() < e.filled.Abs().Float64() {
			return fmt.Errorf("update size is below the filled size of order %d", e.order.ID)
		}

		e.target = *update.NewSize
	}

	if update.NewLimit != nil {
		if e.limit == nil {
			return fmt.Errorf("order %d has no limit price to update", e.order.ID)
		}
		limit := *update.NewLimit
		e.limit = &limit
	}

	if update.NewStop != nil {
		if e.stop == nil {
			return fmt.Errorf("order %d has no stop price to update", e.order.ID)
		}
		stop := *update.NewStop
		e.stop = &stop
	}

	return nil
}

func (e *singleOrderExecutor) Expire(reg *ExecutorRegistry, t time.Time) {
	if e.state.IsClosed() {
		return
	}

	if e.order.TIF.IsExpired(e.state.OpenedAt, t, e.filled, e.target) {
		if err := e.state.Close(models.OrderStatusExpired, t); err != nil {
			log.Errorf("Expire: order %d: %v", e.order.ID, err)
		}
	}
}

// Execute evaluates the order against this tick's pricing and returns the
// fills. A nil result means the order did not trigger.
func (e *singleOrderExecutor) Execute(reg *ExecutorRegistry, p pricing.Pricing, t time.Time) []models.Execution {
	if e.state.IsClosed() {
		return nil
	}

	remaining := e.Remaining()
	if remaining.IsZero() {
		if err := e.state.Close(models.OrderStatusCompleted, t); err != nil {
			log.Errorf("Execute: order %d: %v", e.order.ID, err)
		}
		return nil
	}

	price, triggered := e.match(p, remaining)
	if !triggered {
		return nil
	}

	fillSize := remaining
	if vp, ok := p.(pricing.VolumePricing); ok {
		fillSize = vp.AvailableVolume(remaining)
	}

	if fillSize.IsZero() {
		return nil
	}

	execution := models.NewExecution(e.order.ID, e.order.Asset, fillSize, price, t)
	e.filled = e.filled.Add(fillSize)

	if e.filled.Equals(e.target) {
		if err := e.state.Close(models.OrderStatusCompleted, t); err != nil {
			log.Errorf("Execute: order %d: %v", e.order.ID, err)
		}
	}

	return []models.Execution{execution}
}

// match decides whether the order triggers this tick and at what price.
func (e *singleOrderExecutor) match(p pricing.Pricing, size models.Size) (float64, bool) {
	isBuy := size.IsPositive()

	switch e.order.Type {
	case models.Market:
		return p.MarketPrice(size), true

	case models.Limit:
		return e.matchLimit(p, size, isBuy)

	case models.Stop:
		if e.armStop(p, size, isBuy, *e.stop) {
			return e.cappedStopPrice(p, size, isBuy, *e.stop), true
		}
		return 0, false

	case models.StopLimit:
		if e.armStop(p, size, isBuy, *e.stop) {
			return e.matchLimit(p, size, isBuy)
		}
		return 0, false

	case models.Trail, models.TrailLimit:
		stopLevel, armed := e.trail(p, size, isBuy)
		if !armed {
			return 0, false
		}

		if e.order.Type == models.TrailLimit {
			limit := stopLevel + *e.order.LimitOffset
			e.limit = &limit
			return e.matchLimit(p, size, isBuy)
		}

		return e.cappedStopPrice(p, size, isBuy, stopLevel), true

	default:
		log.Errorf("match: order %d has unsupported type %s", e.order.ID, e.order.Type)
		return 0, false
	}
}

// matchLimit triggers at the favorable side of the bar and caps the
// execution price at the limit, never worse than requested.
func (e *singleOrderExecutor) matchLimit(p pricing.Pricing, size models.Size, isBuy bool) (float64, bool) {
	limit := *e.limit

	if isBuy {
		if p.LowPrice(size) <= limit {
			return math.Min(p.MarketPrice(size), limit), true
		}
		return 0, false
	}

	if p.HighPrice(size) >= limit {
		return math.Max(p.MarketPrice(size), limit), true
	}

	return 0, false
}

// armStop latches the stop trigger. Once armed it stays armed for the rest
// of the order's life.
func (e *singleOrderExecutor) armStop(p pricing.Pricing, size models.Size, isBuy bool, stop float64) bool {
	if e.stopTriggered {
		return true
	}

	if isBuy {
		e.stopTriggered = p.HighPrice(size) >= stop
	} else {
		e.stopTriggered = p.LowPrice(size) <= stop
	}

	return e.stopTriggered
}

// cappedStopPrice fills at market but never through the stop level within
// the same bar, which would be a better price than the bar allows.
func (e *singleOrderExecutor) cappedStopPrice(p pricing.Pricing, size models.Size, isBuy bool, stop float64) float64 {
	market := p.MarketPrice(size)
	if isBuy {
		return math.Max(market, math.Min(stop, p.HighPrice(size)))
	}

	return math.Min(market, math.Max(stop, p.LowPrice(size)))
}

// trail ratchets the stop level off the most favorable price seen since
// acceptance and reports whether the reversal triggered it.
func (e *singleOrderExecutor) trail(p pricing.Pricing, size models.Size, isBuy bool) (float64, bool) {
	if e.stopTriggered {
		return *e.stop, true
	}

	trailPct := *e.order.TrailPercentage

	if isBuy {
		low := p.LowPrice(size)
		if e.trailExtreme == 0 || low < e.trailExtreme {
			e.trailExtreme = low
		}

		stopLevel := e.trailExtreme * (1 + trailPct)
		e.stop = &stopLevel

		if p.HighPrice(size) >= stopLevel {
			e.stopTriggered = true
			return stopLevel, true
		}

		return stopLevel, false
	}

	high := p.HighPrice(size)
	if high > e.trailExtreme {
		e.trailExtreme = high
	}

	stopLevel := e.trailExtreme * (1 - trailPct)
	e.stop = &stopLevel

	if p.LowPrice(size) <= stopLevel {
		e.stopTriggered = true
		return stopLevel, true
	}

	return stopLevel, false
}

func newSingleOrderExecutor(order *models.SingleOrder) *singleOrderExecutor {
	executor := &singleOrderExecutor{
		order:  order,
		state:  models.NewOrderState(),
		target: order.Size,
		filled: models.ZeroSize,
	}

	if order.Limit != nil {
		limit := *order.Limit
		executor.limit = &limit
	}

	if order.Stop != nil {
		stop := *order.Stop
		executor.stop = &stop
	}

	return executor
}
