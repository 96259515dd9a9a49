// Package session holds the signed-in user and their bearer token.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"storefront/internal/client/api"
	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

const (
	// UserKey and TokenKey are the local state keys of the session.
	UserKey  = "user"
	TokenKey = "token"

	// BootstrapToken is the placeholder credential of an offline admin
	// session. The server rejects it.
	BootstrapToken = "admin-placeholder-token"

	bootstrapAdminName = "Admin User"
)

// Authenticator is the remote side of login and registration.
type Authenticator interface {
	Login(ctx context.Context, input *api.LoginRequest) (*api.AuthResult, error)
	Register(ctx context.Context, input *api.RegisterRequest) (*api.AuthResult, error)
}

// Credentials is an email and password pair.
type Credentials struct {
	Email    string
	Password string
}

type Options struct {
	// BootstrapAdmin, when set, signs in as an administrator without a
	// network call if these exact credentials are entered. Local
	// development only.
	BootstrapAdmin *Credentials
}

// Session is either anonymous or holds a user together with a token.
type Session struct {
	mu        sync.RWMutex
	store     *localstore.Store
	auth      Authenticator
	logger    *slog.Logger
	bootstrap *Credentials

	user  *entity.User
	token string
}

// New restores the session from store. A half-written session (user
// without token or the reverse) is discarded.
func New(ctx context.Context, store *localstore.Store, auth Authenticator, logger *slog.Logger, opts Options) *Session {
	s := &Session{
		store:     store,
		auth:      auth,
		logger:    logger,
		bootstrap: opts.BootstrapAdmin,
	}

	user := localstore.Get[*entity.User](ctx, store, UserKey, nil)
	token := store.GetString(ctx, TokenKey)
	if user != nil && token != "" {
		s.user, s.token = user, token
	} else if user != nil || token != "" {
		s.clear(ctx)
	}

	return s
}

// Login signs in. On failure the session is left anonymous and the error
// is an *api.ValidationError, an *api.Error, or a transport error.
func (s *Session) Login(ctx context.Context, email, password string) (*entity.User, error) {
	input := &api.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := api.Validate(input); err != nil {
		return nil, err
	}

	if s.isBootstrapAdmin(input) {
		user := &entity.User{Name: bootstrapAdminName, Email: input.Email, Role: entity.RoleAdmin}
		s.set(ctx, user, BootstrapToken)
		s.logger.WarnContext(ctx, "Signed in with bootstrap admin credentials")

		return copyUser(user), nil
	}

	result, err := s.auth.Login(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "login")
	}

	return s.accept(ctx, result)
}

// Register creates an account and signs in to it.
func (s *Session) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	input := &api.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := api.Validate(input); err != nil {
		return nil, err
	}

	result, err := s.auth.Register(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "register")
	}

	return s.accept(ctx, result)
}

// Logout always ends anonymous, even if clearing local state fails.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear(ctx)
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user.IsAdmin()
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyUser(s.user)
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) isBootstrapAdmin(input *api.LoginRequest) bool {
	return s.bootstrap != nil &&
		s.bootstrap.Email != "" &&
		strings.EqualFold(s.bootstrap.Email, input.Email) &&
		s.bootstrap.Password == input.Password
}

func (s *Session) accept(ctx context.Context, result *api.AuthResult) (*entity.User, error) {
	if result == nil || result.User == nil || result.Token == "" {
		return nil, errors.New("server returned an incomplete session")
	}

	s.set(ctx, result.User, result.Token)

	return copyUser(result.User), nil
}

func (s *Session) set(ctx context.Context, user *entity.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user, s.token = copyUser(user), token

	if err := s.store.Set(ctx, UserKey, s.user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session user", slog.Any("error", err))
	}
	if err := s.store.SetString(ctx, TokenKey, token); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session token", slog.Any("error", err))
	}
}

// clear must be called with mu held or before s is shared.
func (s *Session) clear(ctx context.Context) {
	s.user, s.token = nil, ""

	for _, key := range []string{UserKey, TokenKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.ErrorContext(ctx, "Failed to clear session state",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}

	c := *u

	return &c
}
