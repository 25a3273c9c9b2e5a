package dto

type CheckoutInput struct {
	PaymentMethod string `json:"paymentMethod"`
}

// InvoiceFilters bounds are inclusive YYYY-MM-DD dates; empty means open.
type InvoiceFilters struct {
	From string `form:"from"`
	To   string `form:"to"`
}
