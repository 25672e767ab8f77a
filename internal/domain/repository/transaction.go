package repository

import "context"

// TransactionManager runs multi-step writes atomically: placing an order,
// cancelling one with restock, moving the default address, registering an account.
type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back otherwise. Only the
	// repositories obtained from the factory take part in the transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one transaction.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewAuthRepository() AuthRepository
	NewRefreshTokenRepository() RefreshTokenRepository
	NewProfileRepository() ProfileRepository
	NewAddressRepository() AddressRepository
	NewCategoryRepository() CategoryRepository
	NewProductRepository() ProductRepository
	NewOrderRepository() OrderRepository
}
