package models

import (
	"fmt"
	"sync/atomic"

	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

// Order is the common contract of every order variant. Orders are immutable
// specifications; lifecycle state lives in OrderState, keyed by id.
type Order interface {
	GetID() uint64
	GetAsset() eventmodels.Asset
	GetTag() string
}

// IDGenerator hands out unique, monotonically increasing order ids for one
// broker session.
type IDGenerator struct {
	counter atomic.Uint64
}

func (g *IDGenerator) Next() uint64 {
	return g.counter.Add(1)
}

// SingleOrder is a create order of a single leg: market, limit, stop,
// stop-limit, trail or trail-limit.
type SingleOrder struct {
	ID              uint64                `json:"id"`
	Asset           eventmodels.Asset     `json:"asset"`
	Size            Size                  `json:"size"`
	Type            OrderType             `json:"type"`
	TIF             TimeInForce           `json:"-"`
	Limit           *float64              `json:"limit,omitempty"`
	Stop            *float64              `json:"stop,omitempty"`
	TrailPercentage *float64              `json:"trail_percentage,omitempty"`
	LimitOffset     *float64              `json:"limit_offset,omitempty"`
	Tag             string                `json:"tag"`
}

func (o *SingleOrder) GetID() uint64 {
	return o.ID
}

func (o *SingleOrder) GetAsset() eventmodels.Asset {
	return o.Asset
}

func (o *SingleOrder) GetTag() string {
	return o.Tag
}

// IsBuy reports the direction of the order.
func (o *SingleOrder) IsBuy() bool {
	return o.Size.IsPositive()
}

func (o *SingleOrder) validate() error {
	if o.Size.IsZero() {
		return ErrZeroOrderSize
	}

	if err := o.Type.Validate(); err != nil {
		return err
	}

	for _, price := range []*float64{o.Limit, o.Stop} {
		if price != nil && *price <= 0 {
			return ErrInvalidPrice
		}
	}

	if o.TrailPercentage != nil && *o.TrailPercentage <= 0 {
		return ErrInvalidPercentage
	}

	return nil
}

func newSingleOrder(id uint64, asset eventmodels.Asset, size Size, orderType OrderType, tif TimeInForce) *SingleOrder {
	if tif == nil {
		tif = GTC{}
	}

	return &SingleOrder{
		ID:    id,
		Asset: asset,
		Size:  size,
		Type:  orderType,
		TIF:   tif,
	}
}

func NewMarketOrder(id uint64, asset eventmodels.Asset, size Size, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, Market, tif)
	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func NewLimitOrder(id uint64, asset eventmodels.Asset, size Size, limit float64, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, Limit, tif)
	order.Limit = &limit

	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func NewStopOrder(id uint64, asset eventmodels.Asset, size Size, stop float64, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, Stop, tif)
	order.Stop = &stop

	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func NewStopLimitOrder(id uint64, asset eventmodels.Asset, size Size, stop float64, limit float64, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, StopLimit, tif)
	order.Stop = &stop
	order.Limit = &limit

	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func NewTrailOrder(id uint64, asset eventmodels.Asset, size Size, trailPercentage float64, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, Trail, tif)
	order.TrailPercentage = &trailPercentage

	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func NewTrailLimitOrder(id uint64, asset eventmodels.Asset, size Size, trailPercentage float64, limitOffset float64, tif TimeInForce) (*SingleOrder, error) {
	order := newSingleOrder(id, asset, size, TrailLimit, tif)
	order.TrailPercentage = &trailPercentage
	order.LimitOffset = &limitOffset

	if err := order.validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// BracketOrder couples an entry order with a take-profit and a stop-loss
// exit. The exits activate only once the entry completed, and the first exit
// to fill cancels the other.
type BracketOrder struct {
	ID         uint64       `json:"id"`
	Entry      *SingleOrder `json:"entry"`
	TakeProfit *SingleOrder `json:"take_profit"`
	StopLoss   *SingleOrder `json:"stop_loss"`
	Tag        string       `json:"tag"`
}

func (o *BracketOrder) GetID() uint64 {
	return o.ID
}

func (o *BracketOrder) GetAsset() eventmodels.Asset {
	return o.Entry.Asset
}

func (o *BracketOrder) GetTag() string {
	return o.Tag
}

func NewBracketOrder(id uint64, entry *SingleOrder, takeProfit *SingleOrder, stopLoss *SingleOrder) (*BracketOrder, error) {
	if entry == nil || takeProfit == nil || stopLoss == nil {
		return nil, ErrNilOrderLeg
	}

	if takeProfit.Asset != entry.Asset || stopLoss.Asset != entry.Asset {
		return nil, ErrAssetMismatch
	}

	negated := entry.Size.Neg()
	if !takeProfit.Size.Equals(negated) || !stopLoss.Size.Equals(negated) {
		return nil, ErrUnbalancedBracket
	}

	return &BracketOrder{
		ID:         id,
		Entry:      entry,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
	}, nil
}

// NewBracketFromPercentage builds a bracket around a market entry at the
// current price, deriving the take-profit limit and stop-loss stop from
// percentage offsets in the direction of the entry.
func NewBracketFromPercentage(gen *IDGenerator, asset eventmodels.Asset, size Size, price float64, profitPercentage float64, lossPercentage float64) (*BracketOrder, error) {
	if profitPercentage <= 0 || lossPercentage <= 0 {
		return nil, ErrInvalidPercentage
	}

	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	direction := float64(size.Sign())
	takeProfitPrice := price * (1 + direction*profitPercentage)
	stopLossPrice := price * (1 - direction*lossPercentage)

	entry, err := NewMarketOrder(gen.Next(), asset, size, nil)
	if err != nil {
		return nil, err
	}

	takeProfit, err := NewLimitOrder(gen.Next(), asset, size.Neg(), takeProfitPrice, nil)
	if err != nil {
		return nil, err
	}

	stopLoss, err := NewStopOrder(gen.Next(), asset, size.Neg(), stopLossPrice, nil)
	if err != nil {
		return nil, err
	}

	return NewBracketOrder(gen.Next(), entry, takeProfit, stopLoss)
}

// OCOOrder evaluates both legs until one of them executes; the other leg is
// cancelled the instant that happens.
type OCOOrder struct {
	ID     uint64       `json:"id"`
	First  *SingleOrder `json:"first"`
	Second *SingleOrder `json:"second"`
	Tag    string       `json:"tag"`
}

func (o *OCOOrder) GetID() uint64 {
	return o.ID
}

func (o *OCOOrder) GetAsset() eventmodels.Asset {
	return o.First.Asset
}

func (o *OCOOrder) GetTag() string {
	return o.Tag
}

func NewOCOOrder(id uint64, first *SingleOrder, second *SingleOrder) (*OCOOrder, error) {
	if first == nil || second == nil {
		return nil, ErrNilOrderLeg
	}

	if first.Asset != second.Asset {
		return nil, ErrAssetMismatch
	}

	return &OCOOrder{ID: id, First: first, Second: second}, nil
}

// OTOOrder evaluates the first leg only; the second leg activates once the
// first completed and never activates when the first aborted.
type OTOOrder struct {
	ID     uint64       `json:"id"`
	First  *SingleOrder `json:"first"`
	Second *SingleOrder `json:"second"`
	Tag    string       `json:"tag"`
}

func (o *OTOOrder) GetID() uint64 {
	return o.ID
}

func (o *OTOOrder) GetAsset() eventmodels.Asset {
	return o.First.Asset
}

func (o *OTOOrder) GetTag() string {
	return o.Tag
}

func NewOTOOrder(id uint64, first *SingleOrder, second *SingleOrder) (*OTOOrder, error) {
	if first == nil || second == nil {
		return nil, ErrNilOrderLeg
	}

	if first.Asset != second.Asset {
		return nil, ErrAssetMismatch
	}

	return &OTOOrder{ID: id, First: first, Second: second}, nil
}

// CancelOrder requests cancellation of an open order. Modify orders never
// generate trades.
type CancelOrder struct {
	ID       uint64 `json:"id"`
	TargetID uint64 `json:"target_id"`
	Tag      string `json:"tag"`
}

func (o *CancelOrder) GetID() uint64 {
	return o.ID
}

func (o *CancelOrder) GetAsset() eventmodels.Asset {
	return eventmodels.Asset{}
}

func (o *CancelOrder) GetTag() string {
	return o.Tag
}

func NewCancelOrder(id uint64, targetID uint64) *CancelOrder {
	return &CancelOrder{ID: id, TargetID: targetID}
}

// UpdateOrder replaces the size and/or price parameters of an open order.
type UpdateOrder struct {
	ID       uint64   `json:"id"`
	TargetID uint64   `json:"target_id"`
	NewSize  *Size    `json:"new_size,omitempty"`
	NewLimit *float64 `json:"new_limit,omitempty"`
	NewStop  *float64 `json:"new_stop,omitempty"`
	Tag      string   `json:"tag"`
}

func (o *UpdateOrder) GetID() uint64 {
	return o.ID
}

func (o *UpdateOrder) GetAsset() eventmodels.Asset {
	return eventmodels.Asset{}
}

func (o *UpdateOrder) GetTag() string {
	return o.Tag
}

func NewUpdateOrder(id uint64, targetID uint64) *UpdateOrder {
	return &UpdateOrder{ID: id, TargetID: targetID}
}

func (o *UpdateOrder) Validate() error {
	if o.NewSize != nil && o.NewSize.IsZero() {
		return ErrZeroOrderSize
	}

	for _, price := range []*float64{o.NewLimit, o.NewStop} {
		if price != nil && *price <= 0 {
			return ErrInvalidPrice
		}
	}

	return nil
}

// DescribeOrder renders a short human-readable summary for logging.
func DescribeOrder(order Order) string {
	switch o := order.(type) {
	case *SingleOrder:
		return fmt.Sprintf("%s %s %s", o.Type, o.Size, o.Asset)
	case *BracketOrder:
		return fmt.Sprintf("bracket %s %s", o.Entry.Size, o.Entry.Asset)
	case *OCOOrder:
		return fmt.Sprintf("oco %s", o.First.Asset)
	case *OTOOrder:
		return fmt.Sprintf("oto %s", o.First.Asset)
	case *CancelOrder:
		return fmt.Sprintf("cancel #%d", o.TargetID)
	case *UpdateOrder:
		return fmt.Sprintf("update #%d", o.TargetID)
	default:
		return "unknown order"
	}
}
