package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeInForce(t *testing.T) {
	openedAt := time.Date(2021, time.March, 1, 14, 30, 0, 0, time.UTC)
	total := NewSize(10)

	t.Run("gtc defaults to 90 days", func(t *testing.T) {
		tif := GTC{}
		assert.False(t, tif.IsExpired(openedAt, openedAt.AddDate(0, 0, 89), ZeroSize, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt.AddDate(0, 0, 91), ZeroSize, total))
	})

	t.Run("gtd expires after the given date", func(t *testing.T) {
		tif := GTD{Date: openedAt.AddDate(0, 0, 5)}
		assert.False(t, tif.IsExpired(openedAt, openedAt.AddDate(0, 0, 5), ZeroSize, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt.AddDate(0, 0, 6), ZeroSize, total))
	})

	t.Run("day expires at the day boundary", func(t *testing.T) {
		tif := Day{}
		assert.False(t, tif.IsExpired(openedAt, openedAt.Add(2*time.Hour), ZeroSize, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt.Add(24*time.Hour), ZeroSize, total))
	})

	t.Run("ioc expires after its first tick unless fully filled", func(t *testing.T) {
		tif := IOC{}
		assert.False(t, tif.IsExpired(openedAt, openedAt, ZeroSize, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt.Add(time.Minute), NewSize(4), total))
		assert.False(t, tif.IsExpired(openedAt, openedAt.Add(time.Minute), total, total))
	})

	t.Run("fok expires on any partial fill", func(t *testing.T) {
		tif := FOK{}
		assert.False(t, tif.IsExpired(openedAt, openedAt, ZeroSize, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt, NewSize(4), total))
		assert.False(t, tif.IsExpired(openedAt, openedAt.Add(time.Minute), total, total))
		assert.True(t, tif.IsExpired(openedAt, openedAt.Add(time.Minute), ZeroSize, total))
	})
}
