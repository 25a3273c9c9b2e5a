package usecase

import (
	"math"
	"time"

	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/model"
)

func validateProduct(p *model.Product, categories []string, checkCategory bool) error {
	if p.Name == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return &model.ValidationError{Field: "price", Reason: "must be a finite number"}
	}
	if p.Price < 0 {
		return &model.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &model.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if checkCategory && !model.HasCategory(categories, p.Category) {
		return &model.ValidationError{Field: "category", Reason: "unknown category " + p.Category}
	}
	if p.Expiry != "" {
		if _, err := time.Parse(clock.DateLayout, p.Expiry); err != nil {
			return &model.ValidationError{Field: "expiry", Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}
