package eventmodels

import "time"

// Event is one timestamped batch of price observations.
type Event struct {
	Time   time.Time
	Prices map[Asset]PriceItem
}

// GetPrice returns the default price for the asset, if the event contains an
// observation for it.
func (e *Event) GetPrice(asset Asset) (float64, bool) {
	item, found := e.Prices[asset]
	if !found {
		return 0, false
	}

	return item.GetPrice(), true
}

func (e *Event) Assets() []Asset {
	assets := make([]Asset, 0, len(e.Prices))
	for asset := range e.Prices {
		assets = append(assets, asset)
	}
	return assets
}

func NewEvent(t time.Time) *Event {
	return &Event{
		Time:   t,
		Prices: make(map[Asset]PriceItem),
	}
}
