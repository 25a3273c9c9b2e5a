package model

// Product is a sellable catalog entry. JSON names follow the persisted
// "products" layout.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Barcode  string  `json:"barcode"`          // Optional, unique when set
	Expiry   string  `json:"expiry,omitempty"` // Optional, YYYY-MM-DD
	Image    string  `json:"image,omitempty"`  // URL or data URI
	Created  string  `json:"created"`
}

// FindProduct returns a pointer into products for the given id, or nil.
func FindProduct(products []Product, id string) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
