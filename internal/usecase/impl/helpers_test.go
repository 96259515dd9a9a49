package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expectTx makes the transaction manager run fn against factory and
// return whatever fn returns.
func expectTx(t *testing.T, txManager *mockRepo.MockTransactionManager) *mockRepo.MockRepositoryFactory {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Once()

	return factory
}
