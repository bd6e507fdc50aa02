package usecase_test

import (
	"context"
	"testing"
	"time"

	"pizzeria/internal/config"
	"pizzeria/internal/domain/model"
	"pizzeria/internal/infra/db"
	infraRepo "pizzeria/internal/infra/repository"
	"pizzeria/internal/infra/token"
	repo "pizzeria/internal/repository"
	"pizzeria/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testEnv is a migrated in-memory SQLite database plus the real GORM
// repositories.
type testEnv struct {
	db     *gorm.DB
	tx     repo.TransactionManager
	repos  repo.TxRepos
	clock  *fixedClock
	dir    *usecase.StoreDirectory
	hasher *usecase.BcryptPasswordHasher
	issuer *token.JWTIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Connect(ctx, config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		GoEnv:       "test",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{
		db:     gdb,
		tx:     infraRepo.NewTxManagerGorm(gdb),
		repos:  infraRepo.NewRepos(gdb),
		clock:  &fixedClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
		dir:    usecase.NewStoreDirectory(),
		hasher: usecase.NewBcryptPasswordHasher(bcrypt.MinCost),
		issuer: token.NewJWTIssuer("test-secret", time.Hour, 24*time.Hour),
	}
}

func (e *testEnv) store(t *testing.T, name string) model.Store {
	t.Helper()
	s := model.Store{Name: name, IsActive: true}
	require.NoError(t, e.repos.Stores().Create(context.Background(), &s))
	return s
}

func (e *testEnv) location(t *testing.T, storeName string, city string) model.Location {
	t.Helper()
	l := model.Location{StoreName: storeName, City: &city}
	require.NoError(t, e.repos.Locations().Upsert(context.Background(), &l))
	return l
}

func (e *testEnv) user(t *testing.T, email string) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Name: "Test", IsActive: true}
	require.NoError(t, e.repos.Users().Create(context.Background(), &u))
	return u
}

func (e *testEnv) product(t *testing.T, name string, price string) model.Product {
	t.Helper()
	p := model.Product{Name: name, Type: model.ProductTypePizza, BasePrice: decimal.RequireFromString(price), IsActive: true}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

// order inserts an order directly, bypassing checkout.
func (e *testEnv) order(t *testing.T, storeID *int64, userID int64, status model.OrderStatus, total string) model.Order {
	t.Helper()
	amount := decimal.RequireFromString(total)
	data, err := model.NewOrderData(model.OrderPayload{
		Delivery: model.DeliveryDetails{Name: "Asha", Email: "asha@example.com", PaymentMethod: "card"},
		Items: []model.OrderLine{{
			CartItemID: 1,
			Quantity:   1,
			Item:       model.CustomItem{Name: "Custom", UnitPrice: amount},
		}},
		Subtotal: amount,
	})
	require.NoError(t, err)

	created := e.clock.Now().Add(-time.Hour)
	uid := userID
	o := model.Order{
		UserID:        &uid,
		StoreID:       storeID,
		OrderData:     data,
		Total:         amount,
		Status:        status,
		PaymentStatus: model.PaymentStatusPending,
		CreatedAt:     created,
		UpdatedAt:     &created,
	}
	require.NoError(t, e.repos.Orders().Create(context.Background(), &o))
	return o
}

func (e *testEnv) reload(t *testing.T, orderID int64) model.Order {
	t.Helper()
	o, err := e.repos.Orders().FindByID(context.Background(), orderID)
	require.NoError(t, err)
	return o
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&n).Error)
	return n
}

func (e *testEnv) cartUsecase() *usecase.CartUsecase {
	return usecase.NewCartUsecase(e.repos.Carts(), e.repos.CartItems(), e.repos.Products())
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind usecase.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, usecase.KindOf(err), "err: %v", err)
}
