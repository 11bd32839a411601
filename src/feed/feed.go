package feed

import (
	"sort"
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Feed produces chronological price events for a backtest run.
type Feed interface {
	// Next returns the next event, or nil once the feed is exhausted.
	Next() *eventmodels.Event

	// Reset rewinds the feed to its first event.
	Reset()
}

// InMemoryFeed serves pre-materialized events in timestamp order.
type InMemoryFeed struct {
	events []*eventmodels.Event
	cursor int
}

func (f *InMemoryFeed) Next() *eventmodels.Event {
	if f.cursor >= len(f.events) {
		return nil
	}

	event := f.events[f.cursor]
	f.cursor++

	return event
}

func (f *InMemoryFeed) Reset() {
	f.cursor = 0
}

// Add merges a price observation into the event at the given timestamp,
// creating the event when needed. Events stay sorted by time.
func (f *InMemoryFeed) Add(t time.Time, asset eventmodels.Asset, item eventmodels.PriceItem) {
	index := sort.Search(len(f.events), func(i int) bool {
		return !f.events[i].Time.Before(t)
	})

	if index < len(f.events) && f.events[index].Time.Equal(t) {
		f.events[index].Prices[asset] = item
		return
	}

	event := eventmodels.NewEvent(t)
	event.Prices[asset] = item

	f.events = append(f.events, nil)
	copy(f.events[index+1:], f.events[index:])
	f.events[index] = event
}

func (f *InMemoryFeed) Len() int {
	return len(f.events)
}

func NewInMemoryFeed() *InMemoryFeed {
	return &InMemoryFeed{}
}
