package repository

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByPaymentIntentIDForUpdate(ctx context.Context, intentID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_intent_id = ?", intentID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByStoreID(ctx context.Context, storeID int64, status *model.OrderStatus) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var items []model.Order
	if err := q.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderGormRepository) ApplyStatusChange(ctx context.Context, orderID int64, ch repo.StatusChange) error {
	fields := map[string]any{
		"status":     ch.Status,
		"updated_at": ch.UpdatedAt,
	}
	if ch.AcceptedAt != nil {
		fields["accepted_at"] = *ch.AcceptedAt
	}
	if ch.RejectedAt != nil {
		fields["rejected_at"] = *ch.RejectedAt
	}
	return r.updates(ctx, orderID, fields)
}

func (r *OrderGormRepository) SwapPaymentIntent(ctx context.Context, orderID int64, prior string, intentID string, at time.Time) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID)
	if prior == "" {
		q = q.Where("(payment_intent_id IS NULL OR payment_intent_id = '')")
	} else {
		q = q.Where("payment_intent_id = ?", prior)
	}

	res := q.Updates(map[string]any{
		"payment_intent_id": intentID,
		"payment_status":    model.PaymentStatusPending,
		"updated_at":        at,
	})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) SetPaymentStatus(ctx context.Context, orderID int64, paymentStatus string, at time.Time) error {
	return r.updates(ctx, orderID, map[string]any{
		"payment_status": paymentStatus,
		"updated_at":     at,
	})
}

func (r *OrderGormRepository) MarkPaid(ctx context.Context, orderID int64, paymentMethod string, at time.Time) error {
	return r.updates(ctx, orderID, map[string]any{
		"payment_status": model.PaymentStatusPaid,
		"status":         model.OrderStatusConfirmed,
		"payment_method": paymentMethod,
		"updated_at":     at,
	})
}

func (r *OrderGormRepository) updates(ctx context.Context, orderID int64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(fields)
	return affectedOrNotFound(res)
}
