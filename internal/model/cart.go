package model

// CartLine references a catalog product; price and stock are always read
// from the catalog.
type CartLine struct {
	ProductID string `json:"id"`
	Qty       int    `json:"qty"`
}

// CartSummary is the priced view of the cart at the current catalog state.
type CartSummary struct {
	Items    []InvoiceLine `json:"items"`
	Subtotal float64       `json:"subtotal"`
	Discount float64       `json:"discount"`
	Tax      float64       `json:"tax"`
	Total    float64       `json:"total"`
	TaxRate  float64       `json:"taxRate"`
	Currency string        `json:"currency"`
}
