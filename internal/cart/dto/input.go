package dto

type CartItemInput struct {
	ProductID string `json:"id"`
	Qty       int    `json:"qty"`
}
