package model

const DefaultPaymentMethod = "Cash"

// InvoiceLine is a snapshot of a product at sale time.
type InvoiceLine struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Total     float64 `json:"total"`
}

type Invoice struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"`
	Items         []InvoiceLine `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
}

// Totals holds the money figures shared by cart summaries and invoices.
type Totals struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
}

// ComputeTotals sums line totals and applies taxRate (a percentage).
// Discount is always zero.
func ComputeTotals(lines []InvoiceLine, taxRate float64) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Total
	}
	discount := 0.0
	tax := subtotal * (taxRate / 100)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// SalesSummary aggregates invoices over a date window.
type SalesSummary struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Units    int     `json:"units"`
}
