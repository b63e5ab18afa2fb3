package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/mocks"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Name: "helpdesk"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
			MinPasswordLength:     6,
		},
	}
}

func newAuthService(users *mocks.UserRepository) *AuthService {
	return NewAuthService(testConfig(), users, zap.NewNop())
}

func TestCreateUserThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)

	var stored *domain.User
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = 1
			copied := *u
			stored = &copied
		}).
		Return(nil).Once()

	user, err := svc.CreateUser(ctx, "Ana", "ana@x.com", "secret1", domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	users.On("GetByEmail", ctx, "ana@x.com").Return(stored, nil)

	got, err := svc.Authenticate(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, domain.RoleClient, got.Role)

	users.AssertExpectations(t)
}

func TestAuthenticateIndistinguishableFailures(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "ana@x.com").Return(&domain.User{ID: 1, Email: "ana@x.com", PasswordHash: string(hash)}, nil)
	users.On("GetByEmail", ctx, "nobody@x.com").Return(nil, apperrors.NewNotFound("user", nil))

	_, wrongPassword := svc.Authenticate(ctx, "ana@x.com", "wrong")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthenticateStoreDown(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)
	users.On("GetByEmail", ctx, "ana@x.com").Return(nil, apperrors.ErrNotConnected)

	_, err := svc.Authenticate(ctx, "ana@x.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrNotConnected)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)

	tests := []struct {
		name, userName, email, password string
		role                            domain.Role
		field                           string
	}{
		{"missing name", " ", "a@x.com", "secret1", domain.RoleClient, "name"},
		{"missing email", "Ana", "", "secret1", domain.RoleClient, "email"},
		{"bad email", "Ana", "ana", "secret1", domain.RoleClient, "email"},
		{"missing password", "Ana", "a@x.com", "", domain.RoleClient, "password"},
		{"password over bcrypt limit", "Ana", "a@x.com", strings.Repeat("a", 73), domain.RoleClient, "password"},
		{"multibyte password over bcrypt limit", "Ana", "a@x.com", strings.Repeat("é", 40), domain.RoleClient, "password"},
		{"bad role", "Ana", "a@x.com", "secret1", domain.Role("cliente"), "role"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tc.userName, tc.email, tc.password, tc.role)
			require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
			assert.Contains(t, apperrors.ToDomainError(err).Details, tc.field)
		})
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserDefaultsRoleAndNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)

	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleClient && u.Email == "ana@x.com" && u.Name == "Ana"
	})).Return(nil).Once()

	_, err := svc.CreateUser(ctx, " Ana ", " Ana@X.com ", "secret1", "")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)
	users.On("Create", ctx, mock.Anything).Return(apperrors.NewDuplicateEmail("ana@x.com", nil))

	_, err := svc.CreateUser(ctx, "Ana", "ana@x.com", "secret1", domain.RoleClient)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateEmail))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("issues client token", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := newAuthService(users)
		users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.Role == domain.RoleClient })).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 9 }).
			Return(nil)

		user, token, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "secret1", ConfirmPassword: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, int64(9), user.ID)
		assert.NotEmpty(t, token.Value)

		claims, err := svc.TokenManager().ParseToken(token.Value)
		require.NoError(t, err)
		assert.Equal(t, int64(9), claims.UserID)
		assert.Equal(t, domain.RoleClient, claims.Role)
	})

	t.Run("short password", func(t *testing.T) {
		svc := newAuthService(new(mocks.UserRepository))
		_, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "12345"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
		assert.Contains(t, apperrors.ToDomainError(err).Details, "password")
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := newAuthService(users)
		long := strings.Repeat("a", 80)
		_, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@x.com", Password: long, ConfirmPassword: long})
		require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
		assert.Contains(t, apperrors.ToDomainError(err).Details, "password")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		svc := newAuthService(new(mocks.UserRepository))
		_, _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "secret1", ConfirmPassword: "secret2"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
		assert.Contains(t, apperrors.ToDomainError(err).Details, "confirm_password")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := newAuthService(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "admin@example.com").Return(&domain.User{ID: 1, Role: domain.RoleAdmin, PasswordHash: string(hash)}, nil)

	user, token, err := svc.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, domain.RoleAdmin, token.Role)

	_, _, err = svc.Login(ctx, "", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestValidatePassword(t *testing.T) {
	svc := newAuthService(new(mocks.UserRepository))
	assert.NoError(t, svc.ValidatePassword("secret"))
	assert.True(t, apperrors.HasCode(svc.ValidatePassword("short"), apperrors.CodeValidation))
	assert.NoError(t, svc.ValidatePassword(strings.Repeat("a", 72)))

	err := svc.ValidatePassword(strings.Repeat("a", 73))
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "password")
}
