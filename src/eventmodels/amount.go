package eventmodels

import "fmt"

// Amount is a value in a single currency.
type Amount struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"value"`
}

func (a Amount) String() string {
	return fmt.Sprintf("%.2f %s", a.Value, a.Currency)
}

func (a Amount) Add(value float64) Amount {
	return Amount{Currency: a.Currency, Value: a.Value + value}
}

// ConvertTo converts the amount into the target currency using the given
// rate table.
func (a Amount) ConvertTo(target Currency, rates *RateTable) Amount {
	return Amount{Currency: target, Value: a.Value * rates.Rate(a.Currency, target)}
}

func NewAmount(currency Currency, value float64) Amount {
	return Amount{Currency: currency, Value: value}
}

// RateTable holds fixed conversion rates against a base currency. An empty
// table treats every currency as trading 1:1, which is correct for
// single-currency backtests.
type RateTable struct {
	Base  Currency
	Rates map[Currency]float64
}

// Rate returns the multiplier that converts from one currency into another.
func (r *RateTable) Rate(from Currency, to Currency) float64 {
	if from == to {
		return 1.0
	}

	fromRate := r.lookup(from)
	toRate := r.lookup(to)

	return fromRate / toRate
}

func (r *RateTable) lookup(c Currency) float64 {
	if r == nil || c == r.Base {
		return 1.0
	}

	rate, found := r.Rates[c]
	if !found {
		return 1.0
	}

	return rate
}

func NewRateTable(base Currency) *RateTable {
	return &RateTable{
		Base:  base,
		Rates: make(map[Currency]float64),
	}
}
