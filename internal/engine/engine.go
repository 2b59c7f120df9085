// Package engine implements a price/time-priority matching engine over a
// two-sided order book.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"fenrir-exch/internal/common"
)

// Engine is a single two-sided order book. It is single-threaded: every
// exported method assumes exclusive access by the caller for its duration,
// and the callback is invoked synchronously before the method returns.
type Engine[P common.Number] struct {
	callback common.Callback[P]

	bids *ladder[P]
	asks *ladder[P]

	// index maps every resting order's id to the order, across both
	// ladders. id ∈ index ⇔ the order rests in some rung.
	index map[string]*common.Order[P]

	// Logger is an ambient-stack addition: when set, every emitted event
	// is also logged before the callback fires. The callback remains the
	// only contractual hook.
	Logger zerolog.Logger
}

// New constructs an empty engine. callback must accept TradeEvent,
// CancelEvent and ReviseEvent.
func New[P common.Number](callback common.Callback[P]) *Engine[P] {
	return &Engine[P]{
		callback: callback,
		bids:     newLadder[P](buyLess[P]),
		asks:     newLadder[P](sellLess[P]),
		index:    make(map[string]*common.Order[P]),
	}
}

// Buy submits a buy order: tries to fill against the sell ladder first,
// then rests the remainder if the order's type/TIF permit it.
func (e *Engine[P]) Buy(order *common.Order[P]) {
	order.Side = common.Buy
	e.submit(order)
}

// Sell is the symmetric counterpart of Buy.
func (e *Engine[P]) Sell(order *common.Order[P]) {
	order.Side = common.Sell
	e.submit(order)
}

func (e *Engine[P]) emit(event common.Event[P]) {
	switch ev := event.(type) {
	case common.TradeEvent[P]:
		e.Logger.Info().
			Str("new", ev.New.ID).
			Str("existing", ev.Existing.ID).
			Uint64("qty", ev.Quantity).
			Msg("trade")
	case common.CancelEvent[P]:
		e.Logger.Info().Str("id", ev.Order.ID).Msg("cancel")
	case common.ReviseEvent[P]:
		e.Logger.Info().Str("id", ev.Order.ID).Msg("revise")
	}
	e.callback(event)
}

func (e *Engine[P]) submit(order *common.Order[P]) {
	if order.Timestamp.IsZero() {
		order.Timestamp = time.Now()
	}
	e.fill(order)
}
