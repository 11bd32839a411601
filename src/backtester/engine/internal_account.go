package engine

import (
	"math"
	"time"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// InternalAccount is the single source of mutable truth for one broker. Only
// the broker mutates it, one tick at a time; everyone else consumes the
// immutable snapshots it produces.
type InternalAccount struct {
	baseCurrency   eventmodels.Currency
	lastUpdateTime time.Time
	cash           *eventmodels.Wallet
	buyingPower    eventmodels.Amount
	openOrders     []models.OrderEntry
	closedOrders   []models.OrderEntry
	positions      map[eventmodels.Asset]*models.Position
	trades         []models.Trade
	retention      time.Duration
	rates          *eventmodels.RateTable
}

func (a *InternalAccount) BaseCurrency() eventmodels.Currency {
	return a.baseCurrency
}

func (a *InternalAccount) Rates() *eventmodels.RateTable {
	return a.rates
}

func (a *InternalAccount) Trades() []models.Trade {
	return a.trades
}

func (a *InternalAccount) Deposit(amount eventmodels.Amount) {
	a.cash.Deposit(amount)
}

// CashBalance returns the total cash expressed in the base currency.
func (a *InternalAccount) CashBalance() eventmodels.Amount {
	return a.cash.ConvertTo(a.baseCurrency, a.rates)
}

// ShortExposure sums the absolute market value of all short positions in the
// base currency. Shorting consumes collateral in a pure cash account.
func (a *InternalAccount) ShortExposure() eventmodels.Amount {
	total := 0.0
	for _, position := range a.positions {
		if position.IsShort() {
			value := position.MarketValue().ConvertTo(a.baseCurrency, a.rates).Value
			total += math.Abs(value)
		}
	}

	return eventmodels.Amount{Currency: a.baseCurrency, Value: total}
}

// ProcessExecution applies one fill to the ledger: update the position,
// realize profit on any closed portion, withdraw the notional and fee from
// cash and append the trade record.
func (a *InternalAccount) ProcessExecution(execution models.Execution, fee float64) models.Trade {
	position, found := a.positions[execution.Asset]
	if !found {
		position = models.NewPosition(execution.Asset)
		a.positions[execution.Asset] = position
	}

	realized := position.Update(execution)

	if position.Size.IsZero() {
		// zero positions are removed, never stored
		delete(a.positions, execution.Asset)
	}

	a.cash.Withdraw(execution.Value())
	a.cash.Withdraw(eventmodels.Amount{Currency: execution.Asset.Currency, Value: fee})

	trade := models.NewTrade(execution, fee, realized.Value)
	a.trades = append(a.trades, trade)

	return trade
}

// MarkToMarket refreshes the market price of every open position the event
// has an observation for.
func (a *InternalAccount) MarkToMarket(event *eventmodels.Event) {
	for asset, position := range a.positions {
		if price, found := event.GetPrice(asset); found {
			position.MarkToMarket(price, event.Time)
		}
	}
}

// SyncOrders refreshes the open-order view and appends newly closed orders.
func (a *InternalAccount) SyncOrders(open []models.OrderEntry, closed []models.OrderEntry) {
	a.openOrders = open
	a.closedOrders = append(a.closedOrders, closed...)
}

// Prune drops trades and closed orders that fell out of the retention
// window, bounding memory in long backtests.
func (a *InternalAccount) Prune(now time.Time) {
	if a.retention <= 0 {
		return
	}

	cutoff := now.Add(-a.retention)

	firstTrade := 0
	for firstTrade < len(a.trades) && a.trades[firstTrade].Time.Before(cutoff) {
		firstTrade++
	}
	if firstTrade > 0 {
		a.trades = append([]models.Trade(nil), a.trades[firstTrade:]...)
	}

	firstOrder := 0
	for firstOrder < len(a.closedOrders) && !a.closedOrders[firstOrder].State.ClosedAt.IsZero() && a.closedOrders[firstOrder].State.ClosedAt.Before(cutoff) {
		firstOrder++
	}
	if firstOrder > 0 {
		a.closedOrders = append([]models.OrderEntry(nil), a.closedOrders[firstOrder:]...)
	}
}

func (a *InternalAccount) SetBuyingPower(amount eventmodels.Amount) {
	a.buyingPower = amount
}

func (a *InternalAccount) SetLastUpdateTime(t time.Time) {
	a.lastUpdateTime = t
}

// Equity is cash plus the market value of all open positions in the base
// currency.
func (a *InternalAccount) Equity() eventmodels.Amount {
	total := a.CashBalance().Value
	for _, position := range a.positions {
		total += position.MarketValue().ConvertTo(a.baseCurrency, a.rates).Value
	}

	return eventmodels.Amount{Currency: a.baseCurrency, Value: total}
}

// Snapshot produces an immutable deep copy of the ledger.
func (a *InternalAccount) Snapshot() *models.Account {
	positions := make(map[eventmodels.Asset]models.Position, len(a.positions))
	for asset, position := range a.positions {
		positions[asset] = *position
	}

	trades := make([]models.Trade, len(a.trades))
	copy(trades, a.trades)

	openOrders := make([]models.OrderEntry, len(a.openOrders))
	copy(openOrders, a.openOrders)

	closedOrders := make([]models.OrderEntry, len(a.closedOrders))
	copy(closedOrders, a.closedOrders)

	return &models.Account{
		BaseCurrency:   a.baseCurrency,
		LastUpdateTime: a.lastUpdateTime,
		Cash:           a.cash.Copy(),
		BuyingPower:    a.buyingPower,
		OpenOrders:     openOrders,
		ClosedOrders:   closedOrders,
		Positions:      positions,
		Trades:         trades,
	}
}

// Clear wipes the ledger back to an empty state.
func (a *InternalAccount) Clear() {
	a.cash.Clear()
	a.buyingPower = eventmodels.Amount{Currency: a.baseCurrency}
	a.openOrders = nil
	a.closedOrders = nil
	a.positions = make(map[eventmodels.Asset]*models.Position)
	a.trades = nil
	a.lastUpdateTime = time.Time{}
}

func NewInternalAccount(baseCurrency eventmodels.Currency, retention time.Duration, rates *eventmodels.RateTable) *InternalAccount {
	return &InternalAccount{
		baseCurrency: baseCurrency,
		cash:         eventmodels.NewWallet(),
		buyingPower:  eventmodels.Amount{Currency: baseCurrency},
		positions:    make(map[eventmodels.Asset]*models.Position),
		retention:    retention,
		rates:        rates,
	}
}
