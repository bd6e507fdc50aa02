package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase is the customer's view of their own orders.
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineOutput struct {
	ID         int64              `json:"id"`
	Kind       model.LineItemKind `json:"kind"`
	ProductID  *int64             `json:"product_id"`
	Name       string             `json:"name"`
	Quantity   int64              `json:"quantity"`
	UnitPrice  decimal.Decimal    `json:"unit_price"`
	LineTotal  decimal.Decimal    `json:"line_total"`
	CustomData map[string]any     `json:"custom_data,omitempty"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          *int64                `json:"user_id"`
	StoreID         *int64                `json:"store_id"`
	Status          string                `json:"status"`
	Total           decimal.Decimal       `json:"total"`
	Items           []OrderLineOutput     `json:"items"`
	Delivery        model.DeliveryDetails `json:"delivery"`
	Location        json.RawMessage       `json:"location,omitempty"`
	PaymentStatus   string                `json:"payment_status"`
	PaymentIntentID *string               `json:"payment_intent_id"`
	PaymentMethod   *string               `json:"payment_method"`
	CreatedAt       time.Time             `json:"created_at"`
	AcceptedAt      *time.Time            `json:"accepted_at"`
	RejectedAt      *time.Time            `json:"rejected_at"`
	UpdatedAt       *time.Time            `json:"updated_at"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, NewError(KindUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return internal("list orders", err)
		}
		outs, err = toOrderOutputs(orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// GetMyOrder hides other users' orders behind NotFound.
func (u *OrderUsecase) GetMyOrder(ctx context.Context, orderID int64, userID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return internal("load order", err)
		}
		if o.UserID == nil || *o.UserID != userID {
			return errOrderNotFound
		}
		out, err = toOrderOutput(o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order) (OrderOutput, error) {
	payload, err := o.Payload()
	if err != nil {
		return OrderOutput{}, internal("decode order payload", err)
	}

	items := make([]OrderLineOutput, 0, len(payload.Items))
	for _, l := range payload.Items {
		line := OrderLineOutput{
			ID:        l.CartItemID,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		}
		switch it := l.Item.(type) {
		case model.CatalogItem:
			pid := it.ProductID
			line.Kind = model.LineItemCatalog
			line.ProductID = &pid
			line.Name = it.Name
			line.UnitPrice = it.UnitPrice
		case model.CustomItem:
			line.Kind = model.LineItemCustom
			line.Name = it.Name
			line.UnitPrice = it.UnitPrice
			line.CustomData = it.Attributes
		}
		items = append(items, line)
	}

	out := OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		StoreID:         o.StoreID,
		Status:          string(o.Status),
		Total:           o.Total,
		Items:           items,
		Delivery:        payload.Delivery,
		PaymentStatus:   o.PaymentStatus,
		PaymentIntentID: o.PaymentIntentID,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
		AcceptedAt:      o.AcceptedAt,
		RejectedAt:      o.RejectedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if len(o.Location) > 0 {
		out.Location = json.RawMessage(o.Location)
	}
	return out, nil
}

func toOrderOutputs(orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := toOrderOutput(o)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}
