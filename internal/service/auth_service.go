package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// bcrypt counts bytes, so multi-byte passwords reach the limit sooner.
var passwordTooLong = "max length " + itoa(auth.MaxPasswordBytes) + " bytes"

// AuthService coordinates account creation and login flows.
type AuthService struct {
	users          repository.UserRepository
	tokenMgr       *auth.TokenManager
	hasher         *auth.PasswordHasher
	minPasswordLen int
	logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:          users,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.App.Name),
		hasher:         auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		minPasswordLen: cfg.Auth.MinPasswordLength,
		logger:         logger,
	}
}

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// CreateUser stores a new account with a bcrypt digest. An empty role means client.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if role == "" {
		role = domain.RoleClient
	}

	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if email == "" {
		details["email"] = "required"
	} else if !strings.Contains(email, "@") {
		details["email"] = "invalid"
	}
	if password == "" {
		details["password"] = "required"
	} else if len(password) > auth.MaxPasswordBytes {
		details["password"] = passwordTooLong
	}
	if !role.Valid() {
		details["role"] = "must be admin or client"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid user", details)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords yield the same ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			s.hasher.CompareDummy(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a client account from the sign-up form and issues a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, domain.Token, error) {
	if err := s.validateRegistration(in); err != nil {
		return nil, domain.Token{}, err
	}
	user, err := s.CreateUser(ctx, in.Name, in.Email, in.Password, domain.RoleClient)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.Token, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("email and password are required", nil)
	}
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// ListUsers returns every account ordered by id.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ValidatePassword enforces the password length bounds.
func (s *AuthService) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < s.minPasswordLen {
		return apperrors.NewValidationError("password too short", map[string]any{"password": "min length " + itoa(s.minPasswordLen)})
	}
	if len(password) > auth.MaxPasswordBytes {
		return apperrors.NewValidationError("password too long", map[string]any{"password": passwordTooLong})
	}
	return nil
}

func (s *AuthService) validateRegistration(in RegisterInput) error {
	details := map[string]any{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(in.Email) == "" {
		details["email"] = "required"
	}
	if in.Password == "" {
		details["password"] = "required"
	} else if utf8.RuneCountInString(in.Password) < s.minPasswordLen {
		details["password"] = "min length " + itoa(s.minPasswordLen)
	} else if len(in.Password) > auth.MaxPasswordBytes {
		details["password"] = passwordTooLong
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		details["confirm_password"] = "does not match"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
