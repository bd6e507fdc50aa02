package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"
	"pizzeria/internal/metrics"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CheckoutUsecase turns a user's cart into a PENDING order.
type CheckoutUsecase struct {
	tx    repo.TransactionManager
	dir   *StoreDirectory
	clock Clock
}

func NewCheckoutUsecase(tx repo.TransactionManager, dir *StoreDirectory, clock Clock) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, dir: dir, clock: clock}
}

// CheckoutLocation identifies the store by free text.
type CheckoutLocation struct {
	StoreName string
	Address   *string
	City      *string
	State     *string
	Pincode   *string
	Phone     *string

	// the request's location object, stored verbatim on the order
	Raw map[string]any
}

type CheckoutInput struct {
	Delivery model.DeliveryDetails
	StoreID  *int64
	Location *CheckoutLocation
}

type CheckoutOutput struct {
	ID    int64           `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// Checkout snapshots the cart, resolves the store, creates the order and
// clears the cart in one transaction.
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewError(KindUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Delivery.PaymentMethod) == "" {
		in.Delivery.PaymentMethod = "card"
	}

	var out CheckoutOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindEmptyCart, "cart is empty")
		}
		if err != nil {
			return internal("load cart", err)
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internal("load cart items", err)
		}
		if len(items) == 0 {
			return NewError(KindEmptyCart, "cart is empty")
		}

		lines, total := snapshotCart(items)

		store, err := u.resolveStore(ctx, r, in)
		if err != nil {
			return err
		}

		data, err := model.NewOrderData(model.OrderPayload{
			Delivery: in.Delivery,
			Items:    lines,
			Subtotal: total,
		})
		if err != nil {
			return internal("encode order payload", err)
		}

		now := u.clock.Now()
		uid, sid := userID, store.ID
		order := model.Order{
			UserID:        &uid,
			StoreID:       &sid,
			OrderData:     data,
			Total:         total,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			CreatedAt:     now,
			UpdatedAt:     &now,
		}
		if in.Location != nil && in.Location.Raw != nil {
			loc, err := json.Marshal(in.Location.Raw)
			if err != nil {
				return NewError(KindValidation, "invalid location")
			}
			order.Location = datatypes.JSON(loc)
		}

		if err := r.Orders().Create(ctx, &order); err != nil {
			return internal("create order", err)
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return internal("clear cart", err)
		}

		out = CheckoutOutput{ID: order.ID, Total: total}
		logger.WithCtx(ctx).Info("order placed",
			"order_id", order.ID, "user_id", userID, "store_id", store.ID, "total", total.StringFixed(2))
		return nil
	})
	if err != nil {
		metrics.Checkouts.WithLabelValues(string(KindOf(err))).Inc()
		return CheckoutOutput{}, err
	}
	metrics.Checkouts.WithLabelValues("ok").Inc()
	return out, nil
}

func (u *CheckoutUsecase) resolveStore(ctx context.Context, r repo.TxRepos, in CheckoutInput) (model.Store, error) {
	if in.StoreID != nil && *in.StoreID > 0 {
		s, err := r.Stores().FindByID(ctx, *in.StoreID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return model.Store{}, internal("load store", err)
		}
		// unknown id: fall through to the location data
	}

	if in.Location == nil || strings.TrimSpace(in.Location.StoreName) == "" {
		return model.Store{}, NewError(KindInvalidStoreReference, "a valid store_id or location is required")
	}

	s, err := u.dir.ResolveOrCreateStore(ctx, r, in.Location.StoreName, model.StoreAddress{
		Address: in.Location.Address,
		City:    in.Location.City,
		State:   in.Location.State,
		Pincode: in.Location.Pincode,
		Phone:   in.Location.Phone,
	})
	if err != nil {
		return model.Store{}, asUsecaseError("resolve store", err)
	}
	return s, nil
}

// snapshotCart copies cart items into order lines using the prices
// captured at add-to-cart time.
func snapshotCart(items []model.CartItem) ([]model.OrderLine, decimal.Decimal) {
	total := decimal.Zero
	lines := make([]model.OrderLine, 0, len(items))

	for _, it := range items {
		line := model.OrderLine{CartItemID: it.ID, Quantity: it.Quantity}
		attrs := it.CustomAttributes()

		if it.ProductID != nil {
			name := customName(attrs)
			if it.Product != nil {
				name = it.Product.Name
			}
			line.Item = model.CatalogItem{ProductID: *it.ProductID, Name: name, UnitPrice: it.UnitPrice}
		} else {
			line.Item = model.CustomItem{Name: customName(attrs), UnitPrice: it.UnitPrice, Attributes: attrs}
		}

		total = total.Add(line.LineTotal())
		lines = append(lines, line)
	}
	return lines, total
}

func customName(attrs map[string]any) string {
	if n, ok := attrs["name"].(string); ok && strings.TrimSpace(n) != "" {
		return n
	}
	return "Custom"
}
