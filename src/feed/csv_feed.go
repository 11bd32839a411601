package feed

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// CandleDTO is one OHLCV row of a candle CSV file.
type CandleDTO struct {
	Timestamp string  `csv:"time"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

func (c *CandleDTO) parseTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", c.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing time %q: %w", c.Timestamp, err)
	}

	return t, nil
}

func (c *CandleDTO) toPriceBar() eventmodels.PriceBar {
	return eventmodels.PriceBar{
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	}
}

// LoadCSV merges one asset's candle CSV into the feed.
func LoadCSV(f *InMemoryFeed, asset eventmodels.Asset, reader io.Reader) error {
	var rows []*CandleDTO
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return fmt.Errorf("error parsing candles csv: %w", err)
	}

	for _, row := range rows {
		t, err := row.parseTime()
		if err != nil {
			return err
		}

		f.Add(t, asset, row.toPriceBar())
	}

	return nil
}

// NewCSVFeed builds a feed from per-asset candle CSV files.
func NewCSVFeed(files map[eventmodels.Asset]string) (*InMemoryFeed, error) {
	result := NewInMemoryFeed()

	for asset, filename := range files {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("error opening candles file: %w", err)
		}

		err = LoadCSV(result, asset, file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	return result, nil
}
