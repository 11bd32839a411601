package engine

import (
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// AccountModel recomputes buying power from the ledger after each update.
type AccountModel interface {
	CalcBuyingPower(account *InternalAccount) eventmodels.Amount
}

// CashAccountModel is a pure cash policy: no leverage, and short exposure
// consumes collateral instead of freeing it.
type CashAccountModel struct {
	// Minimum is kept out of buying power as a safety buffer, in the
	// account's base currency.
	Minimum float64
}

func (m CashAccountModel) CalcBuyingPower(account *InternalAccount) eventmodels.Amount {
	cash := account.CashBalance()
	short := account.ShortExposure()

	return eventmodels.Amount{
		Currency: account.BaseCurrency(),
		Value:    cash.Value - short.Value - m.Minimum,
	}
}

func NewCashAccountModel(minimum float64) CashAccountModel {
	return CashAccountModel{Minimum: minimum}
}
