package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CartUsecase is the /cart logic. Prices are captured when an item is
// added and never refreshed from the menu afterwards.
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ID         int64           `json:"id"`
	ProductID  *int64          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CustomData map[string]any  `json:"custom_data,omitempty"`
}

type CartOutput struct {
	Items []CartItemOutput `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// AddCartItemInput is a menu product (ProductID) or a custom pizza
// (CustomData with a "price" key).
type AddCartItemInput struct {
	ProductID  *int64
	Quantity   int64
	CustomData map[string]any
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewError(KindUnauthorized, "unauthorized")
	}
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, internal("get cart", err)
	}
	return u.buildCartOutput(ctx, cart.ID)
}

func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewError(KindUnauthorized, "unauthorized")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewError(KindValidation, "invalid quantity")
	}

	item := model.CartItem{Quantity: in.Quantity}
	switch {
	case in.ProductID != nil:
		p, err := u.productRepo.FindByID(ctx, *in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NewError(KindNotFound, "product not found")
		}
		if err != nil {
			return CartOutput{}, internal("load product", err)
		}
		if !p.IsActive {
			return CartOutput{}, NewError(KindNotFound, "product not found")
		}
		item.ProductID = &p.ID
		item.UnitPrice = p.BasePrice
		if in.CustomData != nil {
			raw, err := json.Marshal(in.CustomData)
			if err != nil {
				return CartOutput{}, NewError(KindValidation, "invalid custom_data")
			}
			item.CustomData = datatypes.JSON(raw)
		}

	case in.CustomData != nil:
		price, err := customPrice(in.CustomData)
		if err != nil {
			return CartOutput{}, err
		}
		raw, err := json.Marshal(in.CustomData)
		if err != nil {
			return CartOutput{}, NewError(KindValidation, "invalid custom_data")
		}
		item.UnitPrice = price
		item.CustomData = datatypes.JSON(raw)

	default:
		return CartOutput{}, NewError(KindValidation, "product_id or custom_data is required")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, internal("get cart", err)
	}
	item.CartID = cart.ID
	if err := u.cartItemRepo.Create(ctx, &item); err != nil {
		return CartOutput{}, internal("add cart item", err)
	}
	return u.buildCartOutput(ctx, cart.ID)
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) (CartOutput, error) {
	if qty < 1 {
		return CartOutput{}, NewError(KindValidation, "invalid quantity")
	}
	cart, err := u.ownedItemCart(ctx, userID, cartItemID)
	if err != nil {
		return CartOutput{}, err
	}
	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		return CartOutput{}, internal("update cart item", err)
	}
	return u.buildCartOutput(ctx, cart.ID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	cart, err := u.ownedItemCart(ctx, userID, cartItemID)
	if err != nil {
		return CartOutput{}, err
	}
	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, internal("delete cart item", err)
	}
	return u.buildCartOutput(ctx, cart.ID)
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internal("get cart", err)
	}
	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return internal("clear cart", err)
	}
	return nil
}

// ownedItemCart returns the user's cart if it holds cartItemID.
func (u *CartUsecase) ownedItemCart(ctx context.Context, userID int64, cartItemID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewError(KindUnauthorized, "unauthorized")
	}
	notFound := NewError(KindNotFound, "cart item not found")

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, notFound
	}
	if err != nil {
		return model.Cart{}, internal("get cart", err)
	}
	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, notFound
	}
	if err != nil {
		return model.Cart{}, internal("load cart item", err)
	}
	if item.CartID != cart.ID {
		return model.Cart{}, notFound
	}
	return cart, nil
}

func (u *CartUsecase) buildCartOutput(ctx context.Context, cartID int64) (CartOutput, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartOutput{}, internal("list cart items", err)
	}

	lines, total := snapshotCart(items)
	out := CartOutput{Items: make([]CartItemOutput, 0, len(items)), Total: total}
	for i, it := range items {
		out.Items = append(out.Items, CartItemOutput{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Name:       lines[i].Item.DisplayName(),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CustomData: it.CustomAttributes(),
		})
	}
	return out, nil
}

func customPrice(data map[string]any) (decimal.Decimal, error) {
	var price decimal.Decimal
	switch v := data["price"].(type) {
	case float64:
		price = decimal.NewFromFloat(v)
	case string:
		p, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, NewError(KindValidation, "invalid custom pizza price")
		}
		price = p
	case nil:
		return decimal.Zero, NewError(KindValidation, "custom pizza price is required")
	default:
		return decimal.Zero, NewError(KindValidation, "invalid custom pizza price")
	}
	if price.IsNegative() {
		return decimal.Zero, NewError(KindValidation, "custom pizza price must not be negative")
	}
	return price.Round(2), nil
}
