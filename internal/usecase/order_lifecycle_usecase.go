package usecase

import (
	"context"
	"errors"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"
	"pizzeria/internal/metrics"
	repo "pizzeria/internal/repository"
)

// OrderLifecycleUsecase applies admin-driven status changes. Admins only
// ever see and touch orders of their own store.
type OrderLifecycleUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewOrderLifecycleUsecase(tx repo.TransactionManager, clock Clock) *OrderLifecycleUsecase {
	return &OrderLifecycleUsecase{tx: tx, clock: clock}
}

// ApplyTransition moves the order to requestedStatus. Checks run in order:
// existence, store ownership, status token, transition table.
func (u *OrderLifecycleUsecase) ApplyTransition(ctx context.Context, orderID int64, requestedStatus string, actingStoreID int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return internal("load order", err)
		}

		if !ownedByStore(o, actingStoreID) {
			return errForbiddenStore
		}

		next, ok := model.ParseOrderStatus(requestedStatus)
		if !ok {
			return NewError(KindInvalidStatus, "unknown order status")
		}
		if !o.Status.CanTransitionTo(next) {
			return NewError(KindIllegalTransition, "cannot change order from "+string(o.Status)+" to "+string(next))
		}

		now := u.clock.Now()
		ch := repo.StatusChange{Status: next, UpdatedAt: now}
		switch next {
		case model.OrderStatusAccepted:
			ch.AcceptedAt = &now
		case model.OrderStatusRejected:
			ch.RejectedAt = &now
		}
		if err := r.Orders().ApplyStatusChange(ctx, o.ID, ch); err != nil {
			return internal("update order status", err)
		}

		prev := o.Status
		o.Status = next
		o.UpdatedAt = &now
		if ch.AcceptedAt != nil {
			o.AcceptedAt = ch.AcceptedAt
		}
		if ch.RejectedAt != nil {
			o.RejectedAt = ch.RejectedAt
		}

		metrics.OrderTransitions.WithLabelValues(string(prev), string(next)).Inc()
		logger.WithCtx(ctx).Info("order status changed",
			"order_id", o.ID, "store_id", actingStoreID, "from", prev, "to", next)

		out, err = toOrderOutput(o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderLifecycleUsecase) Accept(ctx context.Context, orderID int64, actingStoreID int64) (OrderOutput, error) {
	return u.ApplyTransition(ctx, orderID, string(model.OrderStatusAccepted), actingStoreID)
}

func (u *OrderLifecycleUsecase) Reject(ctx context.Context, orderID int64, actingStoreID int64) (OrderOutput, error) {
	return u.ApplyTransition(ctx, orderID, string(model.OrderStatusRejected), actingStoreID)
}

// ListStoreOrders returns the store's orders, newest first. statusFilter
// "" lists all.
func (u *OrderLifecycleUsecase) ListStoreOrders(ctx context.Context, actingStoreID int64, statusFilter string) ([]OrderOutput, error) {
	if actingStoreID <= 0 {
		return nil, NewError(KindForbidden, "admin is not assigned to a store")
	}

	var filter *model.OrderStatus
	if statusFilter != "" {
		st, ok := model.ParseOrderStatus(statusFilter)
		if !ok {
			return nil, NewError(KindInvalidStatus, "unknown order status")
		}
		filter = &st
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByStoreID(ctx, actingStoreID, filter)
		if err != nil {
			return internal("list store orders", err)
		}
		outs, err = toOrderOutputs(orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *OrderLifecycleUsecase) GetStoreOrder(ctx context.Context, orderID int64, actingStoreID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return internal("load order", err)
		}
		if !ownedByStore(o, actingStoreID) {
			return errForbiddenStore
		}
		out, err = toOrderOutput(o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ApplyPaymentConfirmation marks the order paid and CONFIRMED whatever its
// current status; payment is an external signal, not an admin step.
// Must run inside the caller's transaction.
func ApplyPaymentConfirmation(ctx context.Context, r repo.TxRepos, o model.Order, paymentMethod string, now time.Time) error {
	if err := r.Orders().MarkPaid(ctx, o.ID, paymentMethod, now); err != nil {
		return err
	}
	if o.Status != model.OrderStatusConfirmed {
		metrics.OrderTransitions.WithLabelValues(string(o.Status), string(model.OrderStatusConfirmed)).Inc()
	}
	return nil
}

func ownedByStore(o model.Order, storeID int64) bool {
	return storeID > 0 && o.StoreID != nil && *o.StoreID == storeID
}
