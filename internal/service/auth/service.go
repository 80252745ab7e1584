package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// AuthResult carries the outcome of a successful registration, login or
// token refresh: the authenticated identity plus a fresh token pair.
type AuthResult struct {
	UserID       int64
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service provides user registration, login and token refresh.
type Service interface {
	// Register creates a new user with a hashed password and issues a token
	// pair. Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, username, password string) (*AuthResult, error)

	// Login verifies the given credentials and issues a fresh token pair.
	// Returns ErrInvalidCredentials for both unknown usernames and wrong
	// passwords; callers cannot distinguish the two.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Refresh validates a refresh token and issues a new token pair for the
	// user it was bound to.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

// ServiceImpl implements the Service interface.
type ServiceImpl struct {
	userStore  store.UserStore
	jwtService JWTService
	hasher     PasswordHasher
	verifier   PasswordVerifier
	logger     *slog.Logger
}

// Ensure ServiceImpl implements Service interface
var _ Service = (*ServiceImpl)(nil)

// NewService creates a new auth Service.
func NewService(
	userStore store.UserStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	logger *slog.Logger,
) *ServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceImpl{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Register implements Service.Register.
func (s *ServiceImpl) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	log := s.logger

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("registration rejected by validation",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// Advisory fast-path check. The unique constraint on the username column
	// remains the authoritative gate for concurrent registrations.
	exists, err := s.userStore.ExistsByUsername(ctx, username)
	if err != nil {
		log.Error("failed to check username availability",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if exists {
		log.Debug("attempted to register existing username", "username", username)
		return nil, store.ErrUsernameExists
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = ""
	user.HashedPassword = hashed

	// Create is a single atomic insert; the unique constraint on username is
	// what makes the uniqueness check race-free.
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			// Lost the race against a concurrent registration of the same name.
			log.Debug("username taken by concurrent registration", "username", username)
			return nil, store.ErrUsernameExists
		}
		log.Error("failed to save user",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)

	return s.issueTokens(ctx, user)
}

// Login implements Service.Login.
func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	log := s.logger

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown username", "username", username)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", "username", username)
		return nil, ErrInvalidCredentials
	}

	log.Info("user logged in",
		"user_id", user.ID,
		"username", user.Username)

	return s.issueTokens(ctx, user)
}

// Refresh implements Service.Refresh.
func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	log := s.logger

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", "error", err)
		return nil, err
	}

	// Confirm the user still exists before minting a new pair.
	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("refresh token for deleted user", "user_id", claims.UserID)
			return nil, ErrInvalidRefreshToken
		}
		log.Error("failed to look up user for token refresh",
			"error", err,
			"user_id", claims.UserID)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	log.Debug("refresh token accepted", "user_id", user.ID)

	return s.issueTokens(ctx, user)
}

// issueTokens generates a fresh access/refresh token pair for the user.
func (s *ServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate access token",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate refresh token",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResult{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UTC().Add(s.jwtService.AccessTokenLifetime()),
	}, nil
}
