package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

type StoreRepository interface {
	Create(ctx context.Context, s *model.Store) error
	FindByID(ctx context.Context, id int64) (model.Store, error)
	// active and inactive, id order
	ListAll(ctx context.Context) ([]model.Store, error)
	ListActive(ctx context.Context) ([]model.Store, error)
	SetActive(ctx context.Context, id int64, active bool) error
}
