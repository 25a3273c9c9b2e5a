package model

// DefaultCategories is the category set used until one is persisted.
func DefaultCategories() []string {
	return []string{
		"Fruits & Vegetables",
		"Meat & Fish",
		"Dairy",
		"Bakery",
		"Snacks",
		"Frozen",
		"Beverages",
		"Household",
		"Personal Care",
		"Electronics",
	}
}

func HasCategory(categories []string, name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}
