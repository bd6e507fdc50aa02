package usecase_test

import (
	"context"
	"testing"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.cartUsecase()
	user := env.user(t, "cart@example.com")
	p := env.product(t, "Paneer Tikka", "12.40")

	out, err := uc.AddItem(ctx, user.ID, usecase.AddCartItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Items[0].Quantity)
	assert.Equal(t, "Paneer Tikka", out.Items[0].Name)
	assert.Equal(t, "12.40", out.Total.StringFixed(2))

	out, err = uc.AddItem(ctx, user.ID, usecase.AddCartItemInput{
		Quantity:   2,
		CustomData: map[string]any{"price": "4.555", "crust": "thin"},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Custom", out.Items[1].Name)
	assert.Equal(t, "4.56", out.Items[1].UnitPrice.StringFixed(2))
	assert.Equal(t, "thin", out.Items[1].CustomData["crust"])
	assert.Equal(t, "21.52", out.Total.StringFixed(2))
}

func TestCartAddItemRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.cartUsecase()
	user := env.user(t, "bad@example.com")
	gone := env.product(t, "Retired", "3.00")
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", gone.ID).Update("is_active", false).Error)

	cases := []struct {
		name string
		in   usecase.AddCartItemInput
		want usecase.Kind
	}{
		{"negative quantity", usecase.AddCartItemInput{ProductID: &gone.ID, Quantity: -1}, usecase.KindValidation},
		{"inactive product", usecase.AddCartItemInput{ProductID: &gone.ID}, usecase.KindNotFound},
		{"missing product", usecase.AddCartItemInput{ProductID: ptr(int64(99999))}, usecase.KindNotFound},
		{"nothing to add", usecase.AddCartItemInput{}, usecase.KindValidation},
		{"custom without price", usecase.AddCartItemInput{CustomData: map[string]any{"name": "x"}}, usecase.KindValidation},
		{"custom negative price", usecase.AddCartItemInput{CustomData: map[string]any{"price": -1.0}}, usecase.KindValidation},
		{"custom price not a number", usecase.AddCartItemInput{CustomData: map[string]any{"price": "cheap"}}, usecase.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AddItem(ctx, user.ID, tc.in)
			requireKind(t, err, tc.want)
		})
	}

	_, err := uc.AddItem(ctx, 0, usecase.AddCartItemInput{ProductID: &gone.ID})
	requireKind(t, err, usecase.KindUnauthorized)
}

func TestCartUpdateAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.cartUsecase()
	me := env.user(t, "me@example.com")
	other := env.user(t, "other@example.com")
	p := env.product(t, "Margherita", "8.00")

	out, err := uc.AddItem(ctx, me.ID, usecase.AddCartItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	itemID := out.Items[0].ID

	out, err = uc.UpdateItemQuantity(ctx, me.ID, itemID, 3)
	require.NoError(t, err)
	assert.Equal(t, "24.00", out.Total.StringFixed(2))

	_, err = uc.UpdateItemQuantity(ctx, me.ID, itemID, 0)
	requireKind(t, err, usecase.KindValidation)

	// someone else's item looks like it does not exist
	_, err = uc.GetCart(ctx, other.ID)
	require.NoError(t, err)
	_, err = uc.UpdateItemQuantity(ctx, other.ID, itemID, 1)
	requireKind(t, err, usecase.KindNotFound)
	_, err = uc.RemoveItem(ctx, other.ID, itemID)
	requireKind(t, err, usecase.KindNotFound)

	out, err = uc.RemoveItem(ctx, me.ID, itemID)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Total.IsZero())

	_, err = uc.RemoveItem(ctx, me.ID, itemID)
	requireKind(t, err, usecase.KindNotFound)
}

func TestCartClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.cartUsecase()
	user := env.user(t, "clear@example.com")
	p := env.product(t, "Margherita", "8.00")

	require.NoError(t, uc.Clear(ctx, user.ID))

	_, err := uc.AddItem(ctx, user.ID, usecase.AddCartItemInput{ProductID: &p.ID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, uc.Clear(ctx, user.ID))

	out, err := uc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestProductUsecase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := usecase.NewProductUsecase(env.repos.Products(), env.repos.Menu())
	live := env.product(t, "Margherita", "8.00")
	hidden := env.product(t, "Hidden", "1.00")
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)

	list, err := uc.List(ctx, usecase.ProductFilterInput{Type: " Pizza "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)

	list, err = uc.List(ctx, usecase.ProductFilterInput{Type: "drink"})
	require.NoError(t, err)
	assert.Empty(t, list)

	specialty, err := uc.Specialty(ctx)
	require.NoError(t, err)
	assert.Empty(t, specialty)

	got, err := uc.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "Margherita", got.Name)

	_, err = uc.Get(ctx, hidden.ID)
	requireKind(t, err, usecase.KindNotFound)
}
