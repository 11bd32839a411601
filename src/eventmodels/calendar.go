package eventmodels

import "time"

type Calendar struct {
	Date        string
	MarketOpen  time.Time
	MarketClose time.Time
}

func (c *Calendar) IsBetweenMarketHours(t time.Time) bool {
	return (t.Equal(c.MarketOpen) || t.After(c.MarketOpen)) && t.Before(c.MarketClose)
}

// SameExchangeDay reports whether both times fall on the same exchange day in
// UTC. Day orders expire once the exchange day rolls over.
func SameExchangeDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
