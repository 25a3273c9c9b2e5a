package dto

type MovementFilters struct {
	ProductID    string `form:"product_id"`
	MovementType string `form:"type"` // adjustment, sale
	ReferenceID  string `form:"reference_id"`
	Limit        int    `form:"limit"` // 0 means no limit
}
