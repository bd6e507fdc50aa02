package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

// MenuRepository covers categories and toppings.
type MenuRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	FindCategoryByName(ctx context.Context, name string) (model.Category, error)
	CountCategories(ctx context.Context) (int64, error)
	CreateCategory(ctx context.Context, c *model.Category) error

	// typ "" means all; ordered by type, name
	ListToppings(ctx context.Context, typ string) ([]model.Topping, error)
	CreateTopping(ctx context.Context, t *model.Topping) error
}
