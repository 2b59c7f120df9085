package engine

import "fenrir-exch/internal/common"

// fill is the design-level algorithm of §4.1: try to match the incoming
// order against the opposing ladder, then decide whether to rest the
// residue. The rest-or-discard decision is a single deferred closure so it
// runs on every exit path, matching the scoped-finalization note the
// original RAII destructor encoded.
func (e *Engine[P]) fill(order *common.Order[P]) {
	var opposing, own *ladder[P]
	var oppLess func(a, b P) bool

	switch order.Side {
	case common.Buy:
		opposing, own, oppLess = e.asks, e.bids, sellLess[P]
	case common.Sell:
		opposing, own, oppLess = e.bids, e.asks, buyLess[P]
	default:
		return
	}

	remaining := order.Quantity

	defer func() {
		order.Quantity = remaining
		if order.Type == common.Market || order.TIF == common.IOC || remaining == 0 {
			return
		}
		e.rest(order, own)
	}()

	if opposing.Len() == 0 || remaining == 0 {
		return
	}

	// Target price: the order's own limit, or for MARKET the worst price
	// on the opposing ladder — the last point that ladder will iterate to,
	// which makes a MARKET order sweep every level.
	var target P
	if order.Type == common.Market {
		worst, ok := opposing.Max()
		if !ok {
			return
		}
		target = worst.price
	} else {
		target = order.Price
	}

	for remaining > 0 {
		level, ok := opposing.MinMut()
		if !ok {
			break
		}
		if oppLess(target, level.price) {
			// target is strictly worse than this level under the opposing
			// ladder's own comparator: the limit no longer crosses.
			break
		}

		var i int
		var counter *common.Order[P]
		for i, counter = range level.orders {
			matchQty := min(remaining, counter.Quantity)
			remaining -= matchQty
			order.Quantity = remaining
			counter.Quantity -= matchQty

			e.emit(common.TradeEvent[P]{New: order, Existing: counter, Quantity: matchQty})

			if counter.Quantity == 0 {
				delete(e.index, counter.ID)
			}
			if remaining == 0 {
				break
			}
		}

		if counter.Quantity == 0 {
			if i == len(level.orders)-1 {
				opposing.Delete(level)
			} else {
				level.orders = level.orders[i+1:]
			}
		} else {
			level.orders = level.orders[i:]
		}
	}
}

// rest appends order to its own side's ladder at its limit price and
// records it in the book index.
func (e *Engine[P]) rest(order *common.Order[P], own *ladder[P]) {
	level, ok := own.GetMut(&rung[P]{price: order.Price})
	if ok {
		level.orders = append(level.orders, order)
	} else {
		own.Set(&rung[P]{price: order.Price, orders: []*common.Order[P]{order}})
	}
	e.index[order.ID] = order
}
