package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

// ProductFilter narrows the menu; zero values mean no filter.
type ProductFilter struct {
	CategoryID *int64
	Type       string
}

type ProductRepository interface {
	// active products ordered by id, default toppings preloaded
	ListActive(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// also writes the DefaultToppings links
	Create(ctx context.Context, p *model.Product) error
}
