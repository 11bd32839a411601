package eventmodels

import (
	"fmt"
	"strings"
)

// Asset identifies a tradable instrument. It is a comparable value type and
// is used as a map key throughout the backtester.
type Asset struct {
	Symbol     string
	Currency   Currency
	Exchange   string
	Multiplier float64
}

func (a Asset) String() string {
	return fmt.Sprintf("%s.%s", a.Symbol, a.Exchange)
}

// Value returns the notional value of the given quantity at the given price,
// denominated in the asset's currency.
func (a Asset) Value(quantity float64, price float64) Amount {
	return Amount{Currency: a.Currency, Value: quantity * price * a.Multiplier}
}

func NewAsset(symbol string, currency Currency, exchange string) Asset {
	return Asset{
		Symbol:     strings.ToUpper(symbol),
		Currency:   currency,
		Exchange:   exchange,
		Multiplier: 1.0,
	}
}

// NewStock returns a US stock asset denominated in USD.
func NewStock(symbol string) Asset {
	return NewAsset(symbol, USD, "US")
}
