package repository

import (
	"context"

	"pizzeria/internal/domain/model"

	"gorm.io/gorm"
)

type AdminGormRepository struct {
	db *gorm.DB
}

func NewAdminGormRepository(db *gorm.DB) *AdminGormRepository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) Create(ctx context.Context, a *model.Admin) error {
	return translate(r.db.WithContext(ctx).Omit("Store").Create(a).Error)
}

func (r *AdminGormRepository) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AdminGormRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	return r.findOne(ctx, "email = ?", email)
}

// oldest admin of the store
func (r *AdminGormRepository) FindByStoreID(ctx context.Context, storeID int64) (model.Admin, error) {
	return r.findOne(ctx, "store_id = ?", storeID)
}

func (r *AdminGormRepository) Update(ctx context.Context, a *model.Admin) error {
	return translate(r.db.WithContext(ctx).Omit("Store", "CreatedAt").Save(a).Error)
}

func (r *AdminGormRepository) findOne(ctx context.Context, cond string, arg any) (model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("id asc").First(&a).Error; err != nil {
		return model.Admin{}, translate(err)
	}
	return a, nil
}
