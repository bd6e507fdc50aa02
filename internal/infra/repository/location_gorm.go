package repository

import (
	"context"
	"errors"
	"strings"

	"pizzeria/internal/domain/model"

	"gorm.io/gorm"
)

type LocationGormRepository struct {
	db *gorm.DB
}

func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

func (r *LocationGormRepository) ListAll(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	err := r.db.WithContext(ctx).
		Preload("Store").
		Order("city asc").
		Order("store_name asc").
		Find(&locs).Error
	if err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *LocationGormRepository) Search(ctx context.Context, term string) ([]model.Location, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	var locs []model.Location
	// LOWER() instead of ILIKE so sqlite/mysql behave the same
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("LOWER(store_name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(area) LIKE ? OR LOWER(pincode) LIKE ?",
			like, like, like, like).
		Order("city asc").
		Order("store_name asc").
		Find(&locs).Error
	if err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *LocationGormRepository) FindByExactStoreName(ctx context.Context, name string) (model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).
		Where("store_name = ?", name).
		Order("id asc").
		First(&l).Error
	if err != nil {
		return model.Location{}, translate(err)
	}
	return l, nil
}

func (r *LocationGormRepository) FindByStoreID(ctx context.Context, storeID int64) ([]model.Location, error) {
	var locs []model.Location
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id asc").
		Find(&locs).Error
	if err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *LocationGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Location{}).Count(&n).Error
	return n, err
}

func (r *LocationGormRepository) SetStoreID(ctx context.Context, locationID int64, storeID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("id = ?", locationID).
		Update("store_id", storeID)
	return translate(res.Error)
}

func (r *LocationGormRepository) Upsert(ctx context.Context, l *model.Location) error {
	var existing model.Location
	q := r.db.WithContext(ctx).Where("store_name = ?", l.StoreName)
	if l.Address != nil {
		q = q.Where("address = ?", *l.Address)
	} else {
		q = q.Where("address IS NULL")
	}
	err := q.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(r.db.WithContext(ctx).Create(l).Error)
	}
	if err != nil {
		return err
	}

	l.ID = existing.ID
	if l.StoreID == nil {
		l.StoreID = existing.StoreID
	}
	return translate(r.db.WithContext(ctx).Omit("Store").Save(l).Error)
}
