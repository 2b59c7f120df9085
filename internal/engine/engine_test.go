package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir-exch/internal/common"
	"fenrir-exch/internal/engine"
)

func collectEvents[P common.Number]() (*[]common.Event[P], common.Callback[P]) {
	events := make([]common.Event[P], 0)
	return &events, func(e common.Event[P]) {
		events = append(events, e)
	}
}

func limitOrder(id string, price float64, qty uint64) *common.Order[float64] {
	return &common.Order[float64]{
		ID:            id,
		Type:          common.Limit,
		TIF:           common.GTC,
		Price:         price,
		Quantity:      qty,
		TotalQuantity: qty,
	}
}

func TestBuy_RestsWhenNoCross(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Buy(limitOrder("b1", 99.0, 10))
	assert.Empty(t, *events, "no resting sell order to cross against")

	eng.Cancel("b1")
	require.Len(t, *events, 1)
	cancel, ok := (*events)[0].(common.CancelEvent[float64])
	require.True(t, ok)
	assert.Equal(t, "b1", cancel.Order.ID)
}

func TestCancel_UnknownIDIsNoOp(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Cancel("nope")
	assert.Empty(t, *events)
}

func TestFill_PriceTimePriority(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Sell(limitOrder("s1", 100.0, 50))
	eng.Sell(limitOrder("s2", 100.0, 50))
	eng.Sell(limitOrder("s3", 99.0, 50))

	*events = (*events)[:0]

	eng.Buy(limitOrder("b1", 100.0, 60))

	require.Len(t, *events, 2, "should match the best price first, then FIFO within it")

	first, ok := (*events)[0].(common.TradeEvent[float64])
	require.True(t, ok)
	assert.Equal(t, "s3", first.Existing.ID, "lower ask price fills before equal-priced, later resting orders")
	assert.Equal(t, uint64(50), first.Quantity)

	second, ok := (*events)[1].(common.TradeEvent[float64])
	require.True(t, ok)
	assert.Equal(t, "s1", second.Existing.ID, "FIFO within the 100.0 level")
	assert.Equal(t, uint64(10), second.Quantity)
}

func TestMarketOrder_SweepsMultipleLevels(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Sell(limitOrder("s1", 100.0, 10))
	eng.Sell(limitOrder("s2", 101.0, 10))
	eng.Sell(limitOrder("s3", 102.0, 10))

	*events = (*events)[:0]

	buy := &common.Order[float64]{ID: "b1", Type: common.Market, TIF: common.IOC, Quantity: 25, TotalQuantity: 25}
	eng.Buy(buy)

	require.Len(t, *events, 3, "sweeps the 100 and 101 levels fully, then partially fills 102")
	assert.Equal(t, uint64(25), buy.TotalQuantity-buy.Quantity, "fully filled across three levels")
	assert.Equal(t, uint64(0), buy.Quantity)

	eng.Cancel("b1")
	assert.Len(t, *events, 3, "nothing rested for the market order, so cancel is a no-op")
}

func TestRevise_RemovesOriginalBeforeValidatingSide(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Buy(limitOrder("o1", 99.0, 10))

	bad := limitOrder("o1", 99.0, 20)
	bad.Side = common.Unknown
	err := eng.Revise(bad)
	assert.ErrorIs(t, err, engine.ErrInvalidSide)

	// The original rested order was removed as a side effect of the
	// attempted revise, even though the revise itself failed.
	eng.Cancel("o1")
	assert.Empty(t, *events, "original already removed, so cancel finds nothing")
}

func TestRevise_ReplacesRestingOrder(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Buy(limitOrder("o1", 99.0, 10))
	*events = (*events)[:0]

	replacement := limitOrder("o1", 98.0, 20)
	replacement.Side = common.Buy
	err := eng.Revise(replacement)
	require.NoError(t, err)

	require.Len(t, *events, 1)
	revise, ok := (*events)[0].(common.ReviseEvent[float64])
	require.True(t, ok)
	assert.Equal(t, 98.0, revise.Order.Price)
	assert.Equal(t, uint64(20), revise.Order.Quantity)
}

func TestIOCOrder_DoesNotRestResidue(t *testing.T) {
	events, cb := collectEvents[float64]()
	eng := engine.New(cb)

	eng.Sell(limitOrder("s1", 100.0, 5))
	*events = (*events)[:0]

	buy := &common.Order[float64]{ID: "b1", Type: common.Limit, TIF: common.IOC, Price: 100.0, Quantity: 20, TotalQuantity: 20}
	eng.Buy(buy)

	require.Len(t, *events, 1)
	eng.Cancel("b1")
	assert.Len(t, *events, 1, "IOC residue was discarded, so cancel finds nothing")
}
