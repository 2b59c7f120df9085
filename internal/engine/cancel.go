package engine

import "fenrir-exch/internal/common"

// Cancel removes a resting order from its ladder and the book index, then
// emits CancelEvent with the removed order. An unknown id is a silent
// no-op — an intentional idempotence choice for retry safety.
func (e *Engine[P]) Cancel(id string) {
	order, ok := e.index[id]
	if !ok {
		return
	}
	e.removeResting(order)
	e.emit(common.CancelEvent[P]{Order: order})
}

// Revise atomically cancels the resting order with replacement.ID (no
// CancelEvent emitted for that removal) and submits replacement as a new
// order per the fill algorithm, then emits ReviseEvent regardless of
// whether the new order fully filled or partially rested. An unknown id is
// a no-op. A replacement with an unknown side fails with ErrInvalidSide,
// and in that case the original order has already been removed silently.
func (e *Engine[P]) Revise(replacement *common.Order[P]) error {
	existing, ok := e.index[replacement.ID]
	if !ok {
		return nil
	}
	e.removeResting(existing)

	if replacement.Side != common.Buy && replacement.Side != common.Sell {
		return ErrInvalidSide
	}

	e.submit(replacement)
	e.emit(common.ReviseEvent[P]{Order: replacement})
	return nil
}

// removeResting deletes order from its ladder rung and from the book
// index. It does not emit any event; callers decide what, if anything, to
// emit.
func (e *Engine[P]) removeResting(order *common.Order[P]) {
	delete(e.index, order.ID)

	var side *ladder[P]
	switch order.Side {
	case common.Buy:
		side = e.bids
	case common.Sell:
		side = e.asks
	default:
		return
	}

	level, ok := side.GetMut(&rung[P]{price: order.Price})
	if !ok {
		return
	}
	for i, o := range level.orders {
		if o.ID == order.ID {
			level.orders = append(level.orders[:i], level.orders[i+1:]...)
			break
		}
	}
	if len(level.orders) == 0 {
		side.Delete(level)
	}
}
