package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

type CartItemRepository interface {
	// id order, Product preloaded
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	Create(ctx context.Context, item *model.CartItem) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
