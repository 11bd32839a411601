package models

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Position is an open holding in a single asset.
type Position struct {
	Asset        eventmodels.Asset `json:"asset"`
	Size         Size              `json:"size"`
	AvgPrice     float64           `json:"avg_price"`
	MktPrice     float64           `json:"mkt_price"`
	LastUpdate   time.Time         `json:"last_update"`
}

func (p *Position) IsLong() bool {
	return p.Size.IsPositive()
}

func (p *Position) IsShort() bool {
	return p.Size.IsNegative()
}

// MarketValue returns the signed value of the position at the last known
// market price.
func (p *Position) MarketValue() eventmodels.Amount {
	return p.Asset.Value(p.Size.Float64(), p.MktPrice)
}

// UnrealizedPNL marks the open size to the last known market price.
func (p *Position) UnrealizedPNL() eventmodels.Amount {
	return p.Asset.Value(p.Size.Float64(), p.MktPrice-p.AvgPrice)
}

// Update applies an execution to the position and returns the realized
// profit on the portion it closed, in the asset's currency. The caller
// removes the position when the resulting size is zero.
func (p *Position) Update(execution Execution) eventmodels.Amount {
	fillSize := execution.Size
	fillPrice := execution.Price
	newSize := p.Size.Add(fillSize)

	switch {
	case p.Size.IsZero():
		// opening fill
		p.AvgPrice = fillPrice

	case p.Size.Sign() == fillSize.Sign():
		// increase: size-weighted average entry price
		total := newSize.Float64()
		p.AvgPrice = (p.AvgPrice*p.Size.Float64() + fillPrice*fillSize.Float64()) / total

	default:
		// reduce, close or flip
		closed := p.Size.Min(fillSize.Neg())
		realized := p.Asset.Value(closed.Float64(), fillPrice-p.AvgPrice)

		if newSize.Sign() == fillSize.Sign() {
			// flipped through zero, residual opens at the fill price
			p.AvgPrice = fillPrice
		}

		p.Size = newSize
		p.MktPrice = fillPrice
		p.LastUpdate = execution.Time

		return realized
	}

	p.Size = newSize
	p.MktPrice = fillPrice
	p.LastUpdate = execution.Time

	return eventmodels.Amount{Currency: p.Asset.Currency}
}

// MarkToMarket records a new market price observation.
func (p *Position) MarkToMarket(price float64, t time.Time) {
	p.MktPrice = price
	p.LastUpdate = t
}

func NewPosition(asset eventmodels.Asset) *Position {
	return &Position{Asset: asset, Size: ZeroSize}
}
