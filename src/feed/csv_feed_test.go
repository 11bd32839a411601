package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

func TestInMemoryFeed(t *testing.T) {
	asset := eventmodels.NewStock("AAPL")
	other := eventmodels.NewStock("MSFT")
	t0 := time.Date(2021, time.January, 4, 14, 30, 0, 0, time.UTC)

	t.Run("events come out in timestamp order", func(t *testing.T) {
		feed := NewInMemoryFeed()
		feed.Add(t0.Add(2*time.Minute), asset, eventmodels.TradePrice{Price: 3})
		feed.Add(t0, asset, eventmodels.TradePrice{Price: 1})
		feed.Add(t0.Add(time.Minute), asset, eventmodels.TradePrice{Price: 2})

		prices := []float64{}
		for event := feed.Next(); event != nil; event = feed.Next() {
			price, found := event.GetPrice(asset)
			require.True(t, found)
			prices = append(prices, price)
		}

		assert.Equal(t, []float64{1, 2, 3}, prices)
	})

	t.Run("same timestamp merges into one event", func(t *testing.T) {
		feed := NewInMemoryFeed()
		feed.Add(t0, asset, eventmodels.TradePrice{Price: 1})
		feed.Add(t0, other, eventmodels.TradePrice{Price: 2})

		require.Equal(t, 1, feed.Len())

		event := feed.Next()
		require.NotNil(t, event)
		assert.Len(t, event.Prices, 2)
	})

	t.Run("reset rewinds to the first event", func(t *testing.T) {
		feed := NewInMemoryFeed()
		feed.Add(t0, asset, eventmodels.TradePrice{Price: 1})

		require.NotNil(t, feed.Next())
		require.Nil(t, feed.Next())

		feed.Reset()
		assert.NotNil(t, feed.Next())
	})
}

func TestLoadCSV(t *testing.T) {
	asset := eventmodels.NewStock("AAPL")

	t.Run("parses candle rows into price bars", func(t *testing.T) {
		csv := strings.Join([]string{
			"time,open,high,low,close,volume",
			"2021-01-04T14:30:00Z,133.52,133.61,126.76,129.41,143301900",
			"2021-01-05T14:30:00Z,128.89,131.74,128.43,131.01,97664900",
		}, "\n")

		feed := NewInMemoryFeed()
		require.NoError(t, LoadCSV(feed, asset, strings.NewReader(csv)))
		require.Equal(t, 2, feed.Len())

		event := feed.Next()
		require.NotNil(t, event)
		assert.Equal(t, time.Date(2021, time.January, 4, 14, 30, 0, 0, time.UTC), event.Time)

		bar, ok := event.Prices[asset].(eventmodels.PriceBar)
		require.True(t, ok)
		assert.Equal(t, 133.52, bar.Open)
		assert.Equal(t, 129.41, bar.Close)
	})

	t.Run("accepts date only timestamps", func(t *testing.T) {
		csv := "time,open,high,low,close,volume\n2021-01-04,10,11,9,10.5,1000"

		feed := NewInMemoryFeed()
		require.NoError(t, LoadCSV(feed, asset, strings.NewReader(csv)))

		event := feed.Next()
		require.NotNil(t, event)
		assert.Equal(t, time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), event.Time)
	})

	t.Run("rejects malformed timestamps", func(t *testing.T) {
		csv := "time,open,high,low,close,volume\n01/04/2021,10,11,9,10.5,1000"

		feed := NewInMemoryFeed()
		assert.Error(t, LoadCSV(feed, asset, strings.NewReader(csv)))
	})
}
