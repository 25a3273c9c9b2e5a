package dto

type CreateProductInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Barcode  string  `json:"barcode"`
	Expiry   string  `json:"expiry"`
	Image    string  `json:"image"`
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	ID       string   `json:"-"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
	Category *string  `json:"category"`
	Barcode  *string  `json:"barcode"`
	Expiry   *string  `json:"expiry"`
	Image    *string  `json:"image"`
}
