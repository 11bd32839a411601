package eventmodels

import "fmt"

// Wallet is a multi-currency cash ledger.
type Wallet struct {
	balances map[Currency]float64
}

func (w *Wallet) Deposit(amount Amount) {
	w.balances[amount.Currency] += amount.Value
}

func (w *Wallet) Withdraw(amount Amount) {
	w.balances[amount.Currency] -= amount.Value
}

func (w *Wallet) Balance(currency Currency) float64 {
	return w.balances[currency]
}

func (w *Wallet) Currencies() []Currency {
	currencies := make([]Currency, 0, len(w.balances))
	for c := range w.balances {
		currencies = append(currencies, c)
	}
	return currencies
}

// ConvertTo returns the total wallet value expressed in the target currency.
func (w *Wallet) ConvertTo(target Currency, rates *RateTable) Amount {
	total := 0.0
	for currency, value := range w.balances {
		total += Amount{Currency: currency, Value: value}.ConvertTo(target, rates).Value
	}

	return Amount{Currency: target, Value: total}
}

// Copy returns an independent copy of the wallet.
func (w *Wallet) Copy() *Wallet {
	balances := make(map[Currency]float64, len(w.balances))
	for currency, value := range w.balances {
		balances[currency] = value
	}

	return &Wallet{balances: balances}
}

func (w *Wallet) Clear() {
	w.balances = make(map[Currency]float64)
}

func (w *Wallet) String() string {
	return fmt.Sprintf("%v", w.balances)
}

func NewWallet(amounts ...Amount) *Wallet {
	wallet := &Wallet{balances: make(map[Currency]float64)}
	for _, amount := range amounts {
		wallet.Deposit(amount)
	}

	return wallet
}
