package dto

type SalesRange struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// LowStockQuery leaves Threshold nil when the caller omits it.
type LowStockQuery struct {
	Threshold *int `form:"threshold"`
}
