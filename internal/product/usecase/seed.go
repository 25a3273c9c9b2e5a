package usecase

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedItem struct {
	name     string
	price    float64
	stock    int
	category string
	barcode  string
}

var starterCatalog = []seedItem{
	{"Bananas", 1.2, 80, "Fruits & Vegetables", "10001"},
	{"Tomatoes", 2.1, 60, "Fruits & Vegetables", "10002"},
	{"Potatoes", 1.5, 120, "Fruits & Vegetables", "10003"},
	{"Onions", 1.1, 90, "Fruits & Vegetables", "10004"},
	{"Chicken Breast", 7.99, 40, "Meat & Fish", "20001"},
	{"Ground Beef", 9.5, 35, "Meat & Fish", "20002"},
	{"Fresh Salmon", 14, 20, "Meat & Fish", "20003"},
	{"Whole Milk 1L", 1.3, 50, "Dairy", "30001"},
	{"Butter 200g", 2.5, 40, "Dairy", "30002"},
	{"Mozzarella Cheese", 4.2, 25, "Dairy", "30003"},
	{"Fresh Bread", 1, 30, "Bakery", "40001"},
	{"Croissant", 0.8, 20, "Bakery", "40002"},
	{"Potato Chips Large", 2.5, 70, "Snacks", "50001"},
	{"Chocolate Bar", 1.2, 90, "Snacks", "50002"},
	{"Coca Cola 1.25L", 1.4, 100, "Beverages", "60001"},
	{"Orange Juice 1L", 2, 50, "Beverages", "60002"},
	{"Laundry Detergent 1kg", 5.5, 30, "Household", "70001"},
	{"Dish Soap", 1.6, 45, "Household", "70002"},
	{"Shampoo 500ml", 3.4, 35, "Personal Care", "80001"},
	{"Toothpaste", 1.5, 60, "Personal Care", "80002"},
	{"AA Batteries (4 pack)", 2.8, 50, "Electronics", "90001"},
}

// SeedIfEmpty writes the starter catalog and reports whether it did. It
// never runs once any product exists.
func (uc *productUseCase) SeedIfEmpty(ctx context.Context) (bool, error) {
	var seeded []model.Product
	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)
		existing, err := repo.FindAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		today := clock.Today(uc.clock)
		seeded = make([]model.Product, 0, len(starterCatalog))
		for _, s := range starterCatalog {
			seeded = append(seeded, model.Product{
				ID:       uuid.New().String(),
				Name:     s.name,
				Price:    s.price,
				Stock:    s.stock,
				Category: s.category,
				Barcode:  s.barcode,
				Created:  today,
			})
		}
		return repo.SaveAll(ctx, seeded)
	})
	if err != nil {
		return false, err
	}
	if len(seeded) == 0 {
		return false, nil
	}

	uc.logger.Info("catalog seeded", zap.Int("products", len(seeded)))
	uc.events.Publish(event.Event{Type: event.CatalogSeeded, Payload: map[string]int{"products": len(seeded)}})

	go func() {
		for _, p := range seeded {
			uc.syncToElastic(context.Background(), p)
		}
	}()

	return true, nil
}
