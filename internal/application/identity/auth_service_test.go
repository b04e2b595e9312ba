package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/identity"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/infrastructure/auth"
	"github.com/tradewiser/backend/internal/infrastructure/config"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthService(userRepo identity.UserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "tradewiser-test",
	})
	return NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func testUser(t *testing.T, username, password string, role identity.UserRole) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, password, role)
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	t.Run("registers a farmer account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		repo.On("ExistsByUsername", mock.Anything, "ramesh").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		info, err := svc.Register(context.Background(), RegisterInput{
			Username: "ramesh",
			Password: "secure-pass-123",
			Role:     identity.RoleFarmer,
			FullName: "Ramesh Kumar",
		})

		require.NoError(t, err)
		assert.Equal(t, "ramesh", info.Username)
		assert.Equal(t, identity.RoleFarmer, info.Role)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		repo.On("ExistsByUsername", mock.Anything, "ramesh").Return(true, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "ramesh",
			Password: "secure-pass-123",
			Role:     identity.RoleFarmer,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USERNAME_TAKEN", domainErr.Code)
	})

	t.Run("rejects admin self-registration", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "admin2",
			Password: "secure-pass-123",
			Role:     identity.RoleAdmin,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN_ROLE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		user := testUser(t, "ramesh", "secure-pass-123", identity.RoleFarmer)
		repo.On("FindByUsername", mock.Anything, "ramesh").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Username: "ramesh",
			Password: "secure-pass-123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		user := testUser(t, "ramesh", "secure-pass-123", identity.RoleFarmer)
		repo.On("FindByUsername", mock.Anything, "ramesh").Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Username: "ramesh",
			Password: "wrong-password",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects unknown user with the same error", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{
			Username: "ghost",
			Password: "whatever-pass",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects locked account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		user := testUser(t, "ramesh", "secure-pass-123", identity.RoleFarmer)
		require.NoError(t, user.Lock())
		repo.On("FindByUsername", mock.Anything, "ramesh").Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Username: "ramesh",
			Password: "secure-pass-123",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("issues a new pair from a valid refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		user := testUser(t, "ramesh", "secure-pass-123", identity.RoleFarmer)
		repo.On("FindByUsername", mock.Anything, "ramesh").Return(user, nil)
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		login, err := svc.Login(context.Background(), LoginInput{
			Username: "ramesh",
			Password: "secure-pass-123",
		})
		require.NoError(t, err)

		result, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "not-a-token",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newAuthService(repo)

	user := testUser(t, "ramesh", "secure-pass-123", identity.RoleFarmer)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "secure-pass-123",
		NewPassword: "even-more-secure-456",
	})

	require.NoError(t, err)
	assert.True(t, user.CheckPassword("even-more-secure-456"))
}
