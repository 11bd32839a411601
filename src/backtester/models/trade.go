package models

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Trade is the immutable record of one execution after fees and realized
// profit were applied to the ledger.
type Trade struct {
	Time        time.Time         `json:"time"`
	Asset       eventmodels.Asset `json:"asset"`
	Size        Size              `json:"size"`
	Price       float64           `json:"price"`
	Fee         float64           `json:"fee"`
	RealizedPNL float64           `json:"realized_pnl"`
	OrderID     uint64            `json:"order_id"`
}

func NewTrade(execution Execution, fee float64, realizedPNL float64) Trade {
	return Trade{
		Time:        execution.Time,
		Asset:       execution.Asset,
		Size:        execution.Size,
		Price:       execution.Price,
		Fee:         fee,
		RealizedPNL: realizedPNL,
		OrderID:     execution.OrderID,
	}
}
