package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeArithmetic(t *testing.T) {
	t.Run("no floating point drift", func(t *testing.T) {
		total := ZeroSize
		for i := 0; i < 10; i++ {
			total = total.Add(NewSize(0.1))
		}

		assert.True(t, total.Equals(NewSize(1)))
	})

	t.Run("sign helpers", func(t *testing.T) {
		assert.True(t, NewSize(10).IsPositive())
		assert.True(t, NewSize(-10).IsNegative())
		assert.True(t, ZeroSize.IsZero())
		assert.Equal(t, -1, NewSize(-2.5).Sign())
	})

	t.Run("neg and abs", func(t *testing.T) {
		assert.True(t, NewSize(-4).Abs().Equals(NewSize(4)))
		assert.True(t, NewSize(4).Neg().Equals(NewSize(-4)))
	})

	t.Run("min keeps the receiver sign", func(t *testing.T) {
		assert.True(t, NewSize(10).Min(NewSize(4)).Equals(NewSize(4)))
		assert.True(t, NewSize(-10).Min(NewSize(4)).Equals(NewSize(-4)))
		assert.True(t, NewSize(3).Min(NewSize(5)).Equals(NewSize(3)))
	})

	t.Run("parses exact strings", func(t *testing.T) {
		size, err := NewSizeFromString("0.0000001")
		assert.NoError(t, err)
		assert.False(t, size.IsZero())

		_, err = NewSizeFromString("not-a-number")
		assert.Error(t, err)
	})
}
