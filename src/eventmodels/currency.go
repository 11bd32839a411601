package eventmodels

import "strings"

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

func (c Currency) String() string {
	return string(c)
}

func NewCurrency(code string) Currency {
	return Currency(strings.ToUpper(code))
}
