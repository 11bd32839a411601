package eventmodels

// PriceItem is a single per-asset price observation within an event.
type PriceItem interface {
	// GetPrice returns the default reference price of the observation.
	GetPrice() float64
}

// TradePrice is a single traded price.
type TradePrice struct {
	Price  float64
	Volume float64
}

func (t TradePrice) GetPrice() float64 {
	return t.Price
}

// PriceBar is an OHLC bar.
type PriceBar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b PriceBar) GetPrice() float64 {
	return b.Close
}

func (b PriceBar) GetHigh() float64 {
	return b.High
}

func (b PriceBar) GetLow() float64 {
	return b.Low
}

// Quote is a bid/ask observation.
type Quote struct {
	Bid     float64
	Ask     float64
	BidSize float64
	AskSize float64
}

func (q Quote) GetPrice() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) GetHigh() float64 {
	return q.Ask
}

func (q Quote) GetLow() float64 {
	return q.Bid
}

// HighLowItem is implemented by price items that carry separate high and low
// observations usable for intrabar matching.
type HighLowItem interface {
	PriceItem
	GetHigh() float64
	GetLow() float64
}
