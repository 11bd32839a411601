package pricing

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Pricing exposes the executable prices for one asset during one tick. The
// size argument lets engines model depth-dependent prices; the reference
// implementations ignore it.
type Pricing interface {
	// MarketPrice is the price a market order executes at.
	MarketPrice(size models.Size) float64

	// LowPrice is the lowest executable price observed this tick.
	LowPrice(size models.Size) float64

	// HighPrice is the highest executable price observed this tick.
	HighPrice(size models.Size) float64
}

// Engine turns a raw price observation into executable pricing. Engines may
// keep internal state across ticks and must reset it in Clear.
type Engine interface {
	GetPricing(item eventmodels.PriceItem, t time.Time) Pricing
	Clear()
}

type noCostPricing struct {
	price float64
	high  float64
	low   float64
}

func (p noCostPricing) MarketPrice(size models.Size) float64 {
	return p.price
}

func (p noCostPricing) LowPrice(size models.Size) float64 {
	return p.low
}

func (p noCostPricing) HighPrice(size models.Size) float64 {
	return p.high
}

// NoCostEngine executes at the observed price without slippage. Bars and
// quotes still expose their true high/low range.
type NoCostEngine struct{}

func (e *NoCostEngine) GetPricing(item eventmodels.PriceItem, t time.Time) Pricing {
	price := item.GetPrice()
	result := noCostPricing{price: price, high: price, low: price}

	if hl, ok := item.(eventmodels.HighLowItem); ok {
		result.high = hl.GetHigh()
		result.low = hl.GetLow()
	}

	return result
}

func (e *NoCostEngine) Clear() {}

func NewNoCostEngine() *NoCostEngine {
	return &NoCostEngine{}
}

type spreadPricing struct {
	noCostPricing
	correction float64
}

// MarketPrice moves against the trade direction: buys pay more, sells
// receive less.
func (p spreadPricing) MarketPrice(size models.Size) float64 {
	if size.IsPositive() {
		return p.price * (1 + p.correction)
	}

	return p.price * (1 - p.correction)
}

func (p spreadPricing) LowPrice(size models.Size) float64 {
	return p.low * (1 - p.correction)
}

func (p spreadPricing) HighPrice(size models.Size) float64 {
	return p.high * (1 + p.correction)
}

// SpreadEngine models a symmetric bid/ask spread expressed in basis points.
type SpreadEngine struct {
	SpreadBips float64
}

func (e *SpreadEngine) GetPricing(item eventmodels.PriceItem, t time.Time) Pricing {
	price := item.GetPrice()
	result := spreadPricing{
		noCostPricing: noCostPricing{price: price, high: price, low: price},
		correction:    e.SpreadBips / 10_000.0,
	}

	if hl, ok := item.(eventmodels.HighLowItem); ok {
		result.high = hl.GetHigh()
		result.low = hl.GetLow()
	}

	return result
}

func (e *SpreadEngine) Clear() {}

func NewSpreadEngine(spreadBips float64) *SpreadEngine {
	return &SpreadEngine{SpreadBips: spreadBips}
}
