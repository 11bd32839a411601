package models

import "fmt"

type OrderType string

const (
	Market     OrderType = "market"
	Limit      OrderType = "limit"
	Stop       OrderType = "stop"
	StopLimit  OrderType = "stop_limit"
	Trail      OrderType = "trail"
	TrailLimit OrderType = "trail_limit"
)

func (t OrderType) Validate() error {
	switch t {
	case Market, Limit, Stop, StopLimit, Trail, TrailLimit:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOrderType, t)
	}
}
