package models

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// OrderEntry pairs an order specification with its lifecycle state inside an
// account snapshot.
type OrderEntry struct {
	Order Order      `json:"order"`
	State OrderState `json:"state"`
}

// Account is an immutable snapshot of the internal ledger. All collections
// are deep copies; mutating the broker afterwards never changes a snapshot.
type Account struct {
	BaseCurrency   eventmodels.Currency               `json:"base_currency"`
	LastUpdateTime time.Time                          `json:"last_update_time"`
	Cash           *eventmodels.Wallet                `json:"-"`
	BuyingPower    eventmodels.Amount                 `json:"buying_power"`
	OpenOrders     []OrderEntry                       `json:"open_orders"`
	ClosedOrders   []OrderEntry                       `json:"closed_orders"`
	Positions      map[eventmodels.Asset]Position     `json:"positions"`
	Trades         []Trade                            `json:"trades"`
}

// CashBalance returns the total cash converted into the base currency.
func (a *Account) CashBalance(rates *eventmodels.RateTable) eventmodels.Amount {
	return a.Cash.ConvertTo(a.BaseCurrency, rates)
}

// UnrealizedPNL sums the mark-to-market profit of all open positions in the
// base currency.
func (a *Account) UnrealizedPNL(rates *eventmodels.RateTable) eventmodels.Amount {
	total := 0.0
	for _, position := range a.Positions {
		total += position.UnrealizedPNL().ConvertTo(a.BaseCurrency, rates).Value
	}

	return eventmodels.Amount{Currency: a.BaseCurrency, Value: total}
}

// Equity is cash plus the market value of all open positions.
func (a *Account) Equity(rates *eventmodels.RateTable) eventmodels.Amount {
	total := a.CashBalance(rates).Value
	for _, position := range a.Positions {
		total += position.MarketValue().ConvertTo(a.BaseCurrency, rates).Value
	}

	return eventmodels.Amount{Currency: a.BaseCurrency, Value: total}
}

// Position returns the snapshot position for the asset, or a zero position.
func (a *Account) Position(asset eventmodels.Asset) Position {
	position, found := a.Positions[asset]
	if !found {
		return Position{Asset: asset, Size: ZeroSize}
	}

	return position
}
