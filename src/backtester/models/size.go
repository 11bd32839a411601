package models

import (
	"github.com/shopspring/decimal"
)

// Size is an exact, signed trade quantity. Positive sizes are long/buy,
// negative sizes are short/sell. It is backed by a fixed-point decimal so
// repeated partial fills never accumulate binary floating-point drift.
type Size struct {
	value decimal.Decimal
}

var ZeroSize = Size{value: decimal.Zero}

func NewSize(quantity float64) Size {
	return Size{value: decimal.NewFromFloat(quantity)}
}

func NewSizeFromString(quantity string) (Size, error) {
	value, err := decimal.NewFromString(quantity)
	if err != nil {
		return ZeroSize, err
	}

	return Size{value: value}, nil
}

func (s Size) Add(other Size) Size {
	return Size{value: s.value.Add(other.value)}
}

func (s Size) Sub(other Size) Size {
	return Size{value: s.value.Sub(other.value)}
}

func (s Size) Neg() Size {
	return Size{value: s.value.Neg()}
}

func (s Size) Abs() Size {
	return Size{value: s.value.Abs()}
}

// Min returns the size with the smaller absolute value, keeping the sign of
// the receiver.
func (s Size) Min(other Size) Size {
	if other.value.Abs().LessThan(s.value.Abs()) {
		if s.IsNegative() {
			return other.Abs().Neg()
		}
		return other.Abs()
	}

	return s
}

func (s Size) IsZero() bool {
	return s.value.IsZero()
}

func (s Size) IsPositive() bool {
	return s.value.IsPositive()
}

func (s Size) IsNegative() bool {
	return s.value.IsNegative()
}

// Sign returns -1, 0 or 1.
func (s Size) Sign() int {
	return s.value.Sign()
}

func (s Size) Equals(other Size) bool {
	return s.value.Equal(other.value)
}

func (s Size) Float64() float64 {
	f, _ := s.value.Float64()
	return f
}

func (s Size) String() string {
	return s.value.String()
}
