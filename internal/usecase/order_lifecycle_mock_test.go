package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
	"pizzeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TxManagerMock runs fn with fixed repos so the usecase can be driven
// without a database.
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

// TxReposMock only wires orders; the lifecycle usecase touches nothing else.
type TxReposMock struct {
	orders repo.OrderRepository
}

func (r *TxReposMock) Stores() repo.StoreRepository       { return nil }
func (r *TxReposMock) Locations() repo.LocationRepository { return nil }
func (r *TxReposMock) Admins() repo.AdminRepository       { return nil }
func (r *TxReposMock) Users() repo.UserRepository         { return nil }
func (r *TxReposMock) Products() repo.ProductRepository   { return nil }
func (r *TxReposMock) Menu() repo.MenuRepository          { return nil }
func (r *TxReposMock) Carts() repo.CartRepository         { return nil }
func (r *TxReposMock) CartItems() repo.CartItemRepository { return nil }
func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	panic("not used in lifecycle tests")
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByPaymentIntentIDForUpdate(ctx context.Context, intentID string) (model.Order, error) {
	panic("not used in lifecycle tests")
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	panic("not used in lifecycle tests")
}

func (m *OrderRepoMock) ListByStoreID(ctx context.Context, storeID int64, status *model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, storeID, status)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ApplyStatusChange(ctx context.Context, orderID int64, ch repo.StatusChange) error {
	args := m.Called(ctx, orderID, ch)
	return args.Error(0)
}

func (m *OrderRepoMock) SwapPaymentIntent(ctx context.Context, orderID int64, prior string, intentID string, at time.Time) (bool, error) {
	panic("not used in lifecycle tests")
}

func (m *OrderRepoMock) SetPaymentStatus(ctx context.Context, orderID int64, paymentStatus string, at time.Time) error {
	panic("not used in lifecycle tests")
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64, paymentMethod string, at time.Time) error {
	panic("not used in lifecycle tests")
}

func mockOrder(t *testing.T, id int64, storeID int64, status model.OrderStatus) model.Order {
	t.Helper()
	data, err := model.NewOrderData(model.OrderPayload{Subtotal: decimal.NewFromInt(10)})
	require.NoError(t, err)
	return model.Order{ID: id, StoreID: &storeID, OrderData: data, Total: decimal.NewFromInt(10), Status: status}
}

func TestAccept_WritesAcceptedAtOnly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	orders := new(OrderRepoMock)
	tm := &TxManagerMock{Repos: &TxReposMock{orders: orders}}
	tm.On("WithinTx", ctx).Return(nil)

	orders.On("FindByIDForUpdate", ctx, int64(7)).Return(mockOrder(t, 7, 3, model.OrderStatusPending), nil)
	orders.On("ApplyStatusChange", ctx, int64(7), mock.MatchedBy(func(ch repo.StatusChange) bool {
		return ch.Status == model.OrderStatusAccepted &&
			ch.AcceptedAt != nil && ch.AcceptedAt.Equal(now) &&
			ch.RejectedAt == nil &&
			ch.UpdatedAt.Equal(now)
	})).Return(nil)

	uc := usecase.NewOrderLifecycleUsecase(tm, &fixedClock{now: now})
	out, err := uc.Accept(ctx, 7, 3)

	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", out.Status)
	orders.AssertExpectations(t)
	tm.AssertNumberOfCalls(t, "WithinTx", 1)
}

func TestApplyTransition_IllegalDoesNotWrite(t *testing.T) {
	ctx := context.Background()

	orders := new(OrderRepoMock)
	tm := &TxManagerMock{Repos: &TxReposMock{orders: orders}}
	tm.On("WithinTx", ctx).Return(nil)
	orders.On("FindByIDForUpdate", ctx, int64(7)).Return(mockOrder(t, 7, 3, model.OrderStatusDelivered), nil)

	uc := usecase.NewOrderLifecycleUsecase(tm, usecase.SystemClock{})
	_, err := uc.ApplyTransition(ctx, 7, "PREPARING", 3)

	requireKind(t, err, usecase.KindIllegalTransition)
	orders.AssertNotCalled(t, "ApplyStatusChange", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyTransition_RepositoryFailureIsInternal(t *testing.T) {
	ctx := context.Background()

	orders := new(OrderRepoMock)
	tm := &TxManagerMock{Repos: &TxReposMock{orders: orders}}
	tm.On("WithinTx", ctx).Return(nil)
	orders.On("FindByIDForUpdate", ctx, int64(7)).Return(mockOrder(t, 7, 3, model.OrderStatusPending), nil)
	orders.On("ApplyStatusChange", ctx, int64(7), mock.Anything).Return(errors.New("connection reset"))

	uc := usecase.NewOrderLifecycleUsecase(tm, usecase.SystemClock{})
	_, err := uc.Reject(ctx, 7, 3)

	requireKind(t, err, usecase.KindInternal)
	ue, ok := usecase.AsError(err)
	require.True(t, ok)
	assert.NotContains(t, ue.Message, "connection reset")
}

func TestListStoreOrders_PassesParsedFilter(t *testing.T) {
	ctx := context.Background()

	orders := new(OrderRepoMock)
	tm := &TxManagerMock{Repos: &TxReposMock{orders: orders}}
	tm.On("WithinTx", ctx).Return(nil)
	orders.On("ListByStoreID", ctx, int64(3), mock.MatchedBy(func(st *model.OrderStatus) bool {
		return st != nil && *st == model.OrderStatusReady
	})).Return([]model.Order{mockOrder(t, 1, 3, model.OrderStatusReady)}, nil)

	uc := usecase.NewOrderLifecycleUsecase(tm, usecase.SystemClock{})
	out, err := uc.ListStoreOrders(ctx, 3, "ready")

	require.NoError(t, err)
	require.Len(t, out, 1)
	orders.AssertExpectations(t)
}
