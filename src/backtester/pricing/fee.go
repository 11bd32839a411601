package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
)

// FeeModel computes the commission for an execution. Past trades are passed
// in so tiered models can inspect trading history.
type FeeModel interface {
	Calculate(execution models.Execution, t time.Time, trades []models.Trade) float64
}

// NoFeeModel charges nothing.
type NoFeeModel struct{}

func (m NoFeeModel) Calculate(execution models.Execution, t time.Time, trades []models.Trade) float64 {
	return 0
}

// PercentageFeeModel charges a flat percentage of the executed notional.
type PercentageFeeModel struct {
	Rate float64
}

func (m PercentageFeeModel) Calculate(execution models.Execution, t time.Time, trades []models.Trade) float64 {
	return math.Abs(execution.Value().Value) * m.Rate
}

func NewPercentageFeeModel(rate float64) (PercentageFeeModel, error) {
	if rate < 0 || rate > 1 {
		return PercentageFeeModel{}, fmt.Errorf("fee rate must be in [0,1], got %f", rate)
	}

	return PercentageFeeModel{Rate: rate}, nil
}
