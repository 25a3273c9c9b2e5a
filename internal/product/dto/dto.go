package dto

type ProductFilters struct {
	Keyword   string `form:"q"`        // Case-insensitive name match
	Category  string `form:"category"` // Exact category name
	SortBy    string `form:"sort"`     // name, price, stock
	SortOrder string `form:"order"`    // asc, desc
}
