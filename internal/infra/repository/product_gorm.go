package repository

import (
	"context"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListActive(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("DefaultToppings", func(db *gorm.DB) *gorm.DB { return db.Order("toppings.id asc") }).
		Where("is_active = ?", true)
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var items []model.Product
	if err := q.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("DefaultToppings", func(db *gorm.DB) *gorm.DB { return db.Order("toppings.id asc") }).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	// toppings already exist; only the join rows are written
	return translate(r.db.WithContext(ctx).Omit("Category", "DefaultToppings.*").Create(p).Error)
}
