package repository

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
)

// StatusChange is written as-is; nil timestamps are left untouched.
type StatusChange struct {
	Status     model.OrderStatus
	AcceptedAt *time.Time
	RejectedAt *time.Time
	UpdatedAt  time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// SELECT ... FOR UPDATE; only meaningful inside WithinTx
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	FindByPaymentIntentIDForUpdate(ctx context.Context, intentID string) (model.Order, error)

	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	// status nil means all
	ListByStoreID(ctx context.Context, storeID int64, status *model.OrderStatus) ([]model.Order, error)

	ApplyStatusChange(ctx context.Context, orderID int64, ch StatusChange) error
	// SwapPaymentIntent stores intentID only while the order still carries
	// prior ("" for none); false means another writer got there first.
	SwapPaymentIntent(ctx context.Context, orderID int64, prior string, intentID string, at time.Time) (bool, error)
	SetPaymentStatus(ctx context.Context, orderID int64, paymentStatus string, at time.Time) error
	// paid + CONFIRMED in one write
	MarkPaid(ctx context.Context, orderID int64, paymentMethod string, at time.Time) error
}
