package dto

type AdjustStockInput struct {
	ProductID      string `json:"product_id"`
	QuantityChange int    `json:"quantity_change"` // Signed
	Reason         string `json:"reason"`
	ReferenceID    string `json:"reference_id"`
}
