package pricing

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// VolumePricing is implemented by pricings that model finite liquidity. The
// executors cap a fill at the available volume, leaving the order partially
// filled for its time-in-force policy to judge.
type VolumePricing interface {
	Pricing

	// AvailableVolume returns how much of the requested size can execute
	// this tick, with the same sign as the request.
	AvailableVolume(size models.Size) models.Size
}

type limitedPricing struct {
	Pricing
	maxVolume models.Size
}

func (p limitedPricing) AvailableVolume(size models.Size) models.Size {
	return size.Min(p.maxVolume)
}

// VolumeLimitedEngine wraps another engine and caps the fill volume per tick.
type VolumeLimitedEngine struct {
	Inner     Engine
	MaxVolume models.Size
}

func (e *VolumeLimitedEngine) GetPricing(item eventmodels.PriceItem, t time.Time) Pricing {
	return limitedPricing{
		Pricing:   e.Inner.GetPricing(item, t),
		maxVolume: e.MaxVolume,
	}
}

func (e *VolumeLimitedEngine) Clear() {
	e.Inner.Clear()
}

func NewVolumeLimitedEngine(inner Engine, maxVolume models.Size) *VolumeLimitedEngine {
	return &VolumeLimitedEngine{Inner: inner, MaxVolume: maxVolume}
}
