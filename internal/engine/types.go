package engine

import (
	"github.com/tidwall/btree"

	"fenrir-exch/internal/common"
)

// rung is the FIFO queue of resting orders at a single price level.
type rung[P common.Number] struct {
	price  P
	orders []*common.Order[P]
}

// ladder is a price-indexed container of rungs, ordered by the comparator
// it was constructed with: descending for the buy side, ascending for the
// sell side. Iterating a ladder in btree order always yields "best price
// first" for that side, which is what lets the fill algorithm use one
// comparator-driven "still crossing" check regardless of side.
type ladder[P common.Number] = btree.BTreeG[*rung[P]]

func newLadder[P common.Number](less func(a, b P) bool) *ladder[P] {
	return btree.NewBTreeG(func(a, b *rung[P]) bool {
		return less(a.price, b.price)
	})
}

func buyLess[P common.Number](a, b P) bool { return a > b }
func sellLess[P common.Number](a, b P) bool { return a < b }
