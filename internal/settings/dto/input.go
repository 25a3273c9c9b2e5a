package dto

// UpdateSettingsInput replaces the settings wholesale.
type UpdateSettingsInput struct {
	StoreName string  `json:"storeName"`
	TaxRate   float64 `json:"taxRate"`
	Currency  string  `json:"currency"`
}
