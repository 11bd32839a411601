package models

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Execution is a single fill produced by an order executor.
type Execution struct {
	OrderID uint64            `json:"order_id"`
	Asset   eventmodels.Asset `json:"asset"`
	Size    Size              `json:"size"`
	Price   float64           `json:"price"`
	Time    time.Time         `json:"time"`
}

// Value returns the signed notional value of the execution in the asset's
// currency.
func (e *Execution) Value() eventmodels.Amount {
	return e.Asset.Value(e.Size.Float64(), e.Price)
}

func NewExecution(orderID uint64, asset eventmodels.Asset, size Size, price float64, t time.Time) Execution {
	return Execution{
		OrderID: orderID,
		Asset:   asset,
		Size:    size,
		Price:   price,
		Time:    t,
	}
}
