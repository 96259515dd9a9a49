package repository

import "context"

// TransactionManager runs use case logic inside a database transaction
// without tying the use case layer to a specific driver.
type TransactionManager interface {
	// Execute runs fn within a transaction. A non-nil error from fn rolls
	// the transaction back; otherwise it is committed.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one transaction.
type RepositoryFactory interface {
	ProductRepo() ProductRepository
	UserRepo() UserRepository
	OrderRepo() OrderRepository
	WishlistRepo() WishlistRepository
}
