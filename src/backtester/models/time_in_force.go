package models

import (
	"time"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// TimeInForce decides when an unfilled order expires. The policy is a pure
// function over the order's open time, the current time and fill progress.
type TimeInForce interface {
	IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool
	String() string
}

// GTC keeps an order working for a bounded number of days, 90 by default.
type GTC struct {
	Days int
}

func (tif GTC) IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool {
	days := tif.Days
	if days <= 0 {
		days = 90
	}

	return now.After(openedAt.AddDate(0, 0, days))
}

func (tif GTC) String() string {
	return "GTC"
}

// GTD keeps an order working until the given date.
type GTD struct {
	Date time.Time
}

func (tif GTD) IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool {
	return now.After(tif.Date)
}

func (tif GTD) String() string {
	return "GTD"
}

// Day expires an order once the exchange day it was opened in is over.
type Day struct{}

func (tif Day) IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool {
	return !eventmodels.SameExchangeDay(openedAt, now)
}

func (tif Day) String() string {
	return "DAY"
}

// IOC expires immediately unless the order fully filled in its first tick.
type IOC struct{}

func (tif IOC) IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool {
	return now.After(openedAt) && !filled.Equals(total)
}

func (tif IOC) String() string {
	return "IOC"
}

// FOK requires the order to fill completely in one tick or not at all. Any
// partial fill expires the order.
type FOK struct{}

func (tif FOK) IsExpired(openedAt time.Time, now time.Time, filled Size, total Size) bool {
	if filled.Equals(total) {
		return false
	}

	return !filled.IsZero() || now.After(openedAt)
}

func (tif FOK) String() string {
	return "FOK"
}
