package model

type Settings struct {
	StoreName string  `json:"storeName"`
	TaxRate   float64 `json:"taxRate"` // Percentage
	Currency  string  `json:"currency"`
}

func DefaultSettings() Settings {
	return Settings{
		StoreName: "My Supermarket",
		TaxRate:   5,
		Currency:  "USD",
	}
}
