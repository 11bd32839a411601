package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
	"github.com/neurallayer/roboquant-sub007/src/eventpubsub"
)

// Config is the construction-time surface of the simulated broker.
type Config struct {
	InitialDeposit eventmodels.Amount
	PricingEngine  pricing.Engine
	FeeModel       pricing.FeeModel
	AccountModel   AccountModel
	Retention      time.Duration
	Rates          *eventmodels.RateTable
}

func (c *Config) applyDefaults() {
	if c.InitialDeposit.Currency == "" {
		c.InitialDeposit = eventmodels.NewAmount(eventmodels.USD, 1_000_000)
	}

	if c.PricingEngine == nil {
		c.PricingEngine = pricing.NewNoCostEngine()
	}

	if c.FeeModel == nil {
		c.FeeModel = pricing.NoFeeModel{}
	}

	if c.AccountModel == nil {
		c.AccountModel = NewCashAccountModel(0)
	}

	if c.Retention == 0 {
		c.Retention = 365 * 24 * time.Hour
	}
}

// EquityPoint is one observation of total account equity, recorded per tick.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// SimBroker is the top-level orchestrator: it registers orders, drives the
// execution engine against each event, applies fills and fees to the ledger
// and hands out immutable account snapshots.
type SimBroker struct {
	ID uuid.UUID

	mutex   sync.Mutex
	config  Config
	engine  *ExecutionEngine
	account *InternalAccount
	gen     *models.IDGenerator
	equity  []EquityPoint
}

// NextOrderID hands out the next unique order id of this session.
func (b *SimBroker) NextOrderID() uint64 {
	return b.gen.Next()
}

// IDGenerator exposes the session id generator for order constructors.
func (b *SimBroker) IDGenerator() *models.IDGenerator {
	return b.gen
}

// Place registers the given orders, runs the execution engine for the event
// and returns a frozen account snapshot. It never surfaces in-band errors:
// orders that cannot be registered are logged and rejected.
func (b *SimBroker) Place(orders []models.Order, event *eventmodels.Event) *models.Account {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	t := event.Time

	for _, order := range orders {
		if order == nil {
			log.Warnf("Place: skipping nil order")
			continue
		}

		if err := b.engine.AddOrder(order, t); err != nil {
			log.Warnf("Place: rejecting order %d (%s): %v", order.GetID(), models.DescribeOrder(order), err)
			rejected := models.NewOrderState()
			if closeErr := rejected.Close(models.OrderStatusRejected, t); closeErr != nil {
				log.Errorf("Place: %v", closeErr)
			}
			b.account.SyncOrders(b.engine.OpenOrders(), []models.OrderEntry{{Order: order, State: *rejected}})
		}
	}

	pricings := b.buildPricings(event)
	executions := b.engine.RunTick(pricings, t)

	for _, execution := range executions {
		fee := b.config.FeeModel.Calculate(execution, t, b.account.Trades())
		trade := b.account.ProcessExecution(execution, fee)
		eventpubsub.Publish(eventpubsub.NewTradeEvent, trade)
	}

	b.account.MarkToMarket(event)

	closed := b.engine.TakeClosedOrders()
	for _, entry := range closed {
		eventpubsub.Publish(eventpubsub.OrderUpdateEvent, entry)
	}
	b.account.SyncOrders(b.engine.OpenOrders(), closed)
	b.account.Prune(t)
	b.account.SetBuyingPower(b.config.AccountModel.CalcBuyingPower(b.account))
	b.account.SetLastUpdateTime(t)

	b.equity = append(b.equity, EquityPoint{Time: t, Equity: b.account.Equity().Value})

	snapshot := b.account.Snapshot()
	eventpubsub.Publish(eventpubsub.AccountSyncEvent, snapshot)

	return snapshot
}

// Sync runs a tick without new orders, refreshing fills, marks and buying
// power for the event.
func (b *SimBroker) Sync(event *eventmodels.Event) *models.Account {
	return b.Place(nil, event)
}

// buildPricings resolves a pricing per asset present in this tick's event.
func (b *SimBroker) buildPricings(event *eventmodels.Event) map[eventmodels.Asset]pricing.Pricing {
	pricings := make(map[eventmodels.Asset]pricing.Pricing, len(event.Prices))
	for asset, item := range event.Prices {
		pricings[asset] = b.config.PricingEngine.GetPricing(item, event.Time)
	}

	return pricings
}

// EquityCurve returns a copy of the per-tick equity observations.
func (b *SimBroker) EquityCurve() []EquityPoint {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	curve := make([]EquityPoint, len(b.equity))
	copy(curve, b.equity)

	return curve
}

// Reset wipes all ledger and engine state and re-deposits the configured
// initial balance.
func (b *SimBroker) Reset() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.engine.Clear()
	b.config.PricingEngine.Clear()
	b.account.Clear()
	b.account.Deposit(b.config.InitialDeposit)
	b.account.SetBuyingPower(b.config.AccountModel.CalcBuyingPower(b.account))
	b.equity = nil

	log.Infof("broker %s reset to initial deposit %s", b.ID, b.config.InitialDeposit)
}

func NewSimBroker(config Config) *SimBroker {
	config.applyDefaults()

	account := NewInternalAccount(config.InitialDeposit.Currency, config.Retention, config.Rates)
	account.Deposit(config.InitialDeposit)
	account.SetBuyingPower(config.AccountModel.CalcBuyingPower(account))

	return &SimBroker{
		ID:      uuid.New(),
		config:  config,
		engine:  NewExecutionEngine(),
		account: account,
		gen:     &models.IDGenerator{},
	}
}
