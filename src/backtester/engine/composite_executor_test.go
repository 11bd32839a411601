package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
)

func TestOCOExecution(t *testing.T) {
	asset := eventmodels.NewStock("AAPL")

	newOCO := func(t *testing.T) *models.OCOOrder {
		t.Helper()
		takeProfit, err := models.NewLimitOrder(1, asset, models.NewSize(-10), 110, nil)
		require.NoError(t, err)
		stopLoss, err := models.NewStopOrder(2, asset, models.NewSize(-10), 90, nil)
		require.NoError(t, err)
		oco, err := models.NewOCOOrder(3, takeProfit, stopLoss)
		require.NoError(t, err)
		return oco
	}

	t.Run("first leg to fill cancels the other", func(t *testing.T) {
		eng := NewExecutionEngine()
		require.NoError(t, eng.AddOrder(newOCO(t), testStart))

		// neither leg triggers
		executions := eng.RunTick(barPricings(asset, 100, 105, 95, 100), testStart)
		assert.Empty(t, executions)
		assert.Len(t, eng.OpenOrders(), 1)

		// take profit triggers
		executions = eng.RunTick(barPricings(asset, 108, 112, 107, 111), testStart.Add(time.Minute))
		require.Len(t, executions, 1)
		assert.GreaterOrEqual(t, executions[0].Price, 110.0)
		assert.True(t, executions[0].Size.Equals(models.NewSize(-10)))

		closed := eng.TakeClosedOrders()
		oco, found := findClosed(closed, 3)
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCompleted, oco.State.Status)
		assert.Empty(t, eng.OpenOrders())
	})

	t.Run("stop loss leg wins on a down move", func(t *testing.T) {
		eng := NewExecutionEngine()
		require.NoError(t, eng.AddOrder(newOCO(t), testStart))

		executions := eng.RunTick(barPricings(asset, 92, 93, 88, 89), testStart)
		require.Len(t, executions, 1)
		assert.LessOrEqual(t, executions[0].Price, 90.0)
	})

	t.Run("both legs cancelled externally closes it as cancelled", func(t *testing.T) {
		eng := NewExecutionEngine()
		oco := newOCO(t)
		require.NoError(t, eng.AddOrder(oco, testStart))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(4, oco.First.GetID()), testStart))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(5, oco.Second.GetID()), testStart))

		executions := eng.RunTick(barPricings(asset, 100, 105, 95, 100), testStart)
		assert.Empty(t, executions)

		entry, found := findClosed(eng.TakeClosedOrders(), 3)
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCancelled, entry.State.Status)
	})

	t.Run("cancelling the composite cancels both legs", func(t *testing.T) {
		eng := NewExecutionEngine()
		require.NoError(t, eng.AddOrder(newOCO(t), testStart))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(4, 3), testStart))

		executions := eng.RunTick(barPricings(asset, 108, 112, 107, 111), testStart)
		assert.Empty(t, executions)

		closed := eng.TakeClosedOrders()
		oco, found := findClosed(closed, 3)
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCancelled, oco.State.Status)
	})
}

func TestBracketExecution(t *testing.T) {
	asset := eventmodels.NewStock("AAPL")

	// market entry at 100 with a 110 take profit and a 95 stop loss
	newBracket := func(t *testing.T) *models.BracketOrder {
		t.Helper()
		gen := &models.IDGenerator{}
		bracket, err := models.NewBracketFromPercentage(gen, asset, models.NewSize(10), 100, 0.10, 0.05)
		require.NoError(t, err)
		return bracket
	}

	t.Run("exits stay dormant until the entry fills", func(t *testing.T) {
		eng := NewExecutionEngine()

		entry, err := models.NewLimitOrder(1, asset, models.NewSize(10), 100, nil)
		require.NoError(t, err)
		takeProfit, err := models.NewLimitOrder(2, asset, models.NewSize(-10), 110, nil)
		require.NoError(t, err)
		stopLoss, err := models.NewStopOrder(3, asset, models.NewSize(-10), 95, nil)
		require.NoError(t, err)
		bracket, err := models.NewBracketOrder(4, entry, takeProfit, stopLoss)
		require.NoError(t, err)
		require.NoError(t, eng.AddOrder(bracket, testStart))

		// the take profit level trades, but the entry has not filled yet
		executions := eng.RunTick(barPricings(asset, 112, 115, 111, 112), testStart)
		assert.Empty(t, executions)
		assert.Len(t, eng.OpenOrders(), 1)
	})

	t.Run("entry then take profit completes the bracket", func(t *testing.T) {
		eng := NewExecutionEngine()
		bracket := newBracket(t)
		require.NoError(t, eng.AddOrder(bracket, testStart))

		executions := eng.RunTick(barPricings(asset, 100, 101, 99, 100), testStart)
		require.Len(t, executions, 1)
		assert.Equal(t, bracket.Entry.GetID(), executions[0].OrderID)
		assert.True(t, executions[0].Size.Equals(models.NewSize(10)))

		// rallies through the 110 take profit
		executions = eng.RunTick(barPricings(asset, 109, 112, 108, 111), testStart.Add(time.Minute))
		require.Len(t, executions, 1)
		assert.Equal(t, bracket.TakeProfit.GetID(), executions[0].OrderID)
		assert.True(t, executions[0].Size.Equals(models.NewSize(-10)))

		closed := eng.TakeClosedOrders()
		entry, found := findClosed(closed, bracket.GetID())
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCompleted, entry.State.Status)
		assert.Empty(t, eng.OpenOrders())
	})

	t.Run("entry fills across two ticks before the exits arm", func(t *testing.T) {
		eng := NewExecutionEngine()
		bracket := newBracket(t)
		require.NoError(t, eng.AddOrder(bracket, testStart))

		// only 4 of 10 available, the entry stays open on the remainder
		bar := eventmodels.PriceBar{Open: 100, High: 101, Low: 99, Close: 100, Volume: 40}
		executions := eng.RunTick(pricingWithVolume(asset, bar, models.NewSize(4)), testStart)
		require.Len(t, executions, 1)
		assert.True(t, executions[0].Size.Equals(models.NewSize(4)))
		assert.Len(t, eng.OpenOrders(), 1)

		// entry completes its remaining 6, the take profit arms at -10 and
		// fills in the same tick
		executions = eng.RunTick(barPricings(asset, 109, 112, 108, 111), testStart.Add(time.Minute))
		require.Len(t, executions, 2)
		assert.True(t, executions[0].Size.Equals(models.NewSize(6)))
		assert.True(t, executions[1].Size.Equals(models.NewSize(-10)))

		closed := eng.TakeClosedOrders()
		entry, found := findClosed(closed, bracket.GetID())
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCompleted, entry.State.Status)
	})

	t.Run("both exits cancelled externally closes it as cancelled", func(t *testing.T) {
		eng := NewExecutionEngine()
		bracket := newBracket(t)
		require.NoError(t, eng.AddOrder(bracket, testStart))

		executions := eng.RunTick(barPricings(asset, 100, 101, 99, 100), testStart)
		require.Len(t, executions, 1)

		require.NoError(t, eng.AddOrder(models.NewCancelOrder(100, bracket.TakeProfit.GetID()), testStart.Add(time.Minute)))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(101, bracket.StopLoss.GetID()), testStart.Add(time.Minute)))

		executions = eng.RunTick(barPricings(asset, 100, 101, 99, 100), testStart.Add(time.Minute))
		assert.Empty(t, executions)

		entry, found := findClosed(eng.TakeClosedOrders(), bracket.GetID())
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCancelled, entry.State.Status)
		assert.Empty(t, eng.OpenOrders())
	})

	t.Run("cancelled entry aborts the whole bracket", func(t *testing.T) {
		eng := NewExecutionEngine()
		bracket := newBracket(t)
		require.NoError(t, eng.AddOrder(bracket, testStart))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(100, bracket.Entry.GetID()), testStart))

		executions := eng.RunTick(barPricings(asset, 100, 101, 99, 100), testStart)
		assert.Empty(t, executions)

		closed := eng.TakeClosedOrders()
		entry, found := findClosed(closed, bracket.GetID())
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCancelled, entry.State.Status)
		assert.Empty(t, eng.OpenOrders())
	})
}

func TestOTOExecution(t *testing.T) {
	asset := eventmodels.NewStock("AAPL")

	newOTO := func(t *testing.T) *models.OTOOrder {
		t.Helper()
		first, err := models.NewLimitOrder(1, asset, models.NewSize(10), 100, nil)
		require.NoError(t, err)
		second, err := models.NewLimitOrder(2, asset, models.NewSize(-10), 110, nil)
		require.NoError(t, err)
		oto, err := models.NewOTOOrder(3, first, second)
		require.NoError(t, err)
		return oto
	}

	t.Run("second leg waits for the first to complete", func(t *testing.T) {
		eng := NewExecutionEngine()
		require.NoError(t, eng.AddOrder(newOTO(t), testStart))

		// the sell level trades, but the buy has not filled
		executions := eng.RunTick(barPricings(asset, 111, 112, 110.5, 111), testStart)
		assert.Empty(t, executions)

		executions = eng.RunTick(barPricings(asset, 100, 100.5, 99, 100), testStart.Add(time.Minute))
		require.Len(t, executions, 1)
		assert.True(t, executions[0].Size.Equals(models.NewSize(10)))

		executions = eng.RunTick(barPricings(asset, 109, 112, 108, 111), testStart.Add(2*time.Minute))
		require.Len(t, executions, 1)
		assert.True(t, executions[0].Size.Equals(models.NewSize(-10)))

		closed := eng.TakeClosedOrders()
		entry, found := findClosed(closed, 3)
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCompleted, entry.State.Status)
	})

	t.Run("aborted first leg drops the second", func(t *testing.T) {
		eng := NewExecutionEngine()
		oto := newOTO(t)
		require.NoError(t, eng.AddOrder(oto, testStart))
		require.NoError(t, eng.AddOrder(models.NewCancelOrder(4, oto.First.GetID()), testStart))

		executions := eng.RunTick(barPricings(asset, 100, 100.5, 99, 100), testStart)
		assert.Empty(t, executions)

		closed := eng.TakeClosedOrders()
		entry, found := findClosed(closed, 3)
		require.True(t, found)
		assert.Equal(t, models.OrderStatusCancelled, entry.State.Status)
		assert.Empty(t, eng.OpenOrders())
	})
}
