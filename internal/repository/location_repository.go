package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

type LocationRepository interface {
	// ordered by city, store_name; Store preloaded
	ListAll(ctx context.Context) ([]model.Location, error)
	// case-insensitive partial match on store_name, city, area, pincode
	Search(ctx context.Context, term string) ([]model.Location, error)
	FindByExactStoreName(ctx context.Context, name string) (model.Location, error)
	// ordered by id
	FindByStoreID(ctx context.Context, storeID int64) ([]model.Location, error)
	Count(ctx context.Context) (int64, error)
	SetStoreID(ctx context.Context, locationID int64, storeID int64) error
	// same store_name and address updates the row in place
	Upsert(ctx context.Context, l *model.Location) error
}
