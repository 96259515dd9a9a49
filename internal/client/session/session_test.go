package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"storefront/internal/client/api"
	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, input *api.LoginRequest) (*api.AuthResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*api.AuthResult)

	return result, args.Error(1)
}

func (m *mockAuthenticator) Register(ctx context.Context, input *api.RegisterRequest) (*api.AuthResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*api.AuthResult)

	return result, args.Error(1)
}

type fixtures struct {
	store  *localstore.Store
	auth   *mockAuthenticator
	logger *slog.Logger
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := localstore.New(memblob.OpenBucket(nil), logger)
	t.Cleanup(func() { _ = store.Close() })

	return fixtures{store: store, auth: &mockAuthenticator{}, logger: logger}
}

func (f fixtures) session(opts Options) *Session {
	return New(context.Background(), f.store, f.auth, f.logger, opts)
}

func userResult(role entity.Role) *api.AuthResult {
	return &api.AuthResult{
		Token: "jwt-token",
		User:  &entity.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", Role: role},
	}
}

func TestSession_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)
	result := userResult(entity.RoleUser)
	f.auth.On("Login", mock.Anything, &api.LoginRequest{Email: "ann@example.com", Password: "secret1"}).Return(result, nil)
	s := f.session(Options{})

	user, err := s.Login(ctx, " ann@example.com ", "secret1")

	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "jwt-token", s.Token())
	assert.Equal(t, "jwt-token", f.store.GetString(ctx, TokenKey))
}

func TestSession_LoginFailureStaysAnonymous(t *testing.T) {
	f := newFixtures(t)
	f.auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"})
	s := f.session(Options{})

	_, err := s.Login(context.Background(), "ann@example.com", "wrong")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestSession_ValidationBlocksNetwork(t *testing.T) {
	f := newFixtures(t)
	s := f.session(Options{})

	_, err := s.Login(context.Background(), "not-an-email", "")

	var verr *api.ValidationError
	require.True(t, errors.As(err, &verr))
	f.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)

	_, err = s.Register(context.Background(), "", "ann@example.com", "secret1")
	require.True(t, errors.As(err, &verr))
	f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestSession_BootstrapAdminWithoutNetwork(t *testing.T) {
	f := newFixtures(t)
	s := f.session(Options{BootstrapAdmin: &Credentials{Email: "admin@salbonsustain.com", Password: "admin123"}})

	user, err := s.Login(context.Background(), "admin@salbonsustain.com", "admin123")

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, BootstrapToken, s.Token())
	f.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestSession_BootstrapAdminDisabledByDefault(t *testing.T) {
	f := newFixtures(t)
	f.auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"})
	s := f.session(Options{})

	_, err := s.Login(context.Background(), "admin@salbonsustain.com", "admin123")

	require.Error(t, err)
	assert.False(t, s.IsAdmin())
	f.auth.AssertCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)
	f.auth.On("Login", mock.Anything, mock.Anything).Return(userResult(entity.RoleAdmin), nil)
	s := f.session(Options{})
	_, err := s.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, s.IsAdmin())

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.Empty(t, f.store.GetString(ctx, TokenKey))
	assert.Nil(t, localstore.Get[*entity.User](ctx, f.store, UserKey, nil))
}

func TestSession_RegisterSignsIn(t *testing.T) {
	f := newFixtures(t)
	f.auth.On("Register", mock.Anything, &api.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"}).
		Return(userResult(entity.RoleUser), nil)
	s := f.session(Options{})

	_, err := s.Register(context.Background(), "Ann", "ann@example.com", "secret1")

	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
}

func TestSession_RestoredOnConstruction(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)
	f.auth.On("Login", mock.Anything, mock.Anything).Return(userResult(entity.RoleUser), nil)
	_, err := f.session(Options{}).Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	restored := f.session(Options{})

	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "jwt-token", restored.Token())
	assert.Equal(t, "ann@example.com", restored.User().Email)
}

func TestSession_HalfWrittenStateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newFixtures(t)
	require.NoError(t, f.store.Set(ctx, UserKey, &entity.User{Email: "ann@example.com"}))

	s := f.session(Options{})

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, localstore.Get[*entity.User](ctx, f.store, UserKey, nil))
}
