package repository

import (
	"context"

	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	stores    repo.StoreRepository
	locations repo.LocationRepository
	admins    repo.AdminRepository
	users     repo.UserRepository
	products  repo.ProductRepository
	menu      repo.MenuRepository
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	orders    repo.OrderRepository
}

func (r *txReposGorm) Stores() repo.StoreRepository       { return r.stores }
func (r *txReposGorm) Locations() repo.LocationRepository { return r.locations }
func (r *txReposGorm) Admins() repo.AdminRepository       { return r.admins }
func (r *txReposGorm) Users() repo.UserRepository         { return r.users }
func (r *txReposGorm) Products() repo.ProductRepository   { return r.products }
func (r *txReposGorm) Menu() repo.MenuRepository          { return r.menu }
func (r *txReposGorm) Carts() repo.CartRepository         { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// NewRepos builds repositories on db; WithinTx calls it with the tx handle.
func NewRepos(db *gorm.DB) repo.TxRepos {
	cart := NewCartGormRepository(db)
	return &txReposGorm{
		stores:    NewStoreGormRepository(db),
		locations: NewLocationGormRepository(db),
		admins:    NewAdminGormRepository(db),
		users:     NewUserGormRepository(db),
		products:  NewProductGormRepository(db),
		menu:      NewMenuGormRepository(db),
		carts:     cart,
		cartItems: cart,
		orders:    NewOrderGormRepository(db),
	}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
