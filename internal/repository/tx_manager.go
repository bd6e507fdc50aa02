package repository

import "context"

// repositories bound to one transaction
type TxRepos interface {
	Stores() StoreRepository
	Locations() LocationRepository
	Admins() AdminRepository
	Users() UserRepository
	Products() ProductRepository
	Menu() MenuRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
}

// TransactionManager hides begin/commit/rollback from usecases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
