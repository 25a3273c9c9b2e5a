package model

import "time"

const (
	MovementAdjustment = "adjustment"
	MovementSale       = "sale"
)

// StockMovement records one change of a product's stock count.
type StockMovement struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	MovementType   string    `json:"movement_type"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         string    `json:"reason"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
