package repository

import (
	"context"

	"pizzeria/internal/domain/model"

	"gorm.io/gorm"
)

type StoreGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) *StoreGormRepository {
	return &StoreGormRepository{db: db}
}

func (r *StoreGormRepository) Create(ctx context.Context, s *model.Store) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *StoreGormRepository) FindByID(ctx context.Context, id int64) (model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return model.Store{}, translate(err)
	}
	return s, nil
}

func (r *StoreGormRepository) ListAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.WithContext(ctx).Order("id asc").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *StoreGormRepository) ListActive(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// no row-count check: MySQL reports 0 affected rows for a no-op update
func (r *StoreGormRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Update("is_active", active)
	return translate(res.Error)
}
