package common

import (
	"fmt"
	"time"
)

// Order is parameterized over its price representation, mirroring the way
// the matching engine is generic over the price type it was instantiated
// with.
type Order[P Number] struct {
	ID            string // Order tracked id, unique within an engine.
	Side          Side
	Type          OrderType
	TIF           TimeInForce
	Price         P
	Quantity      uint64 // Remaining quantity.
	TotalQuantity uint64 // Quantity as originally submitted.
	Timestamp     time.Time
}

func (order Order[P]) String() string {
	return fmt.Sprintf(
		`ID:        %s
Side:      %v
Type:      %v
TIF:       %v
Price:     %v
Quantity:  %d (Total: %d)
Timestamp: %v`,
		order.ID,
		order.Side,
		order.Type,
		order.TIF,
		order.Price,
		order.Quantity,
		order.TotalQuantity,
		order.Timestamp.Format(time.RFC3339),
	)
}
