package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultAdminName = "Admin User"

type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	admin        *config.AdminConfig
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	var admin *config.AdminConfig
	if params.Config != nil {
		admin = params.Config.Admin
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		admin:        admin,
		logger:       params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account and signs it in.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up user")
		}

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	return srv.issue(ctx, user)
}

// Login verifies the credentials and issues an access token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login for unknown email", slog.String("email", email))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch", slog.String("email", email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return srv.issue(ctx, user)
}

func (srv *authService) issue(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.GenerateToken(user)
	if err != nil {
		srv.log(ctx).Error("Failed to generate token", slog.Any("error", err))

		return nil, domainerrors.ErrTokenGenerationFailed.WrapMessage(err.Error())
	}

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// SeedAdmin ensures the configured administrator exists.
func (srv *authService) SeedAdmin(ctx context.Context) error {
	if srv.admin == nil || srv.admin.Email == "" {
		return nil
	}
	if srv.admin.Password == "" {
		srv.logger.Warn("Admin email configured without a password, skipping seed",
			slog.String("email", srv.admin.Email))

		return nil
	}

	email := normalizeEmail(srv.admin.Email)

	existing, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			srv.logger.Warn("Configured admin email belongs to a non-admin account", slog.String("email", email))
		} else {
			srv.logger.Info("Admin user already exists", slog.String("email", email))
		}

		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to look up admin user")
	}

	hashedPassword, err := srv.hasher.Hash(srv.admin.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	name := srv.admin.Name
	if name == "" {
		name = defaultAdminName
	}

	admin := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleAdmin,
	}
	if err := srv.userRepo.Create(ctx, admin); err != nil {
		return errors.Wrap(err, "failed to create admin user")
	}

	srv.logger.Info("Admin user created", slog.String("email", email))

	return nil
}
