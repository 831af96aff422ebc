package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"ravintola/internal/domain"
	"ravintola/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestRegister_Succeeds(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenIssuer)
	service := NewService(users, tokens)

	users.On("GetByEmail", mock.Anything, "new@example.fi").
		Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 1
		}).
		Return(nil)
	tokens.On("GenerateToken", int64(1), "customer").Return("token-123", nil)

	result, err := service.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.fi ",
		Password: "supersecret",
		Name:     "New Customer",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.fi", result.User.Email)
	assert.Equal(t, domain.RoleCustomer, result.User.Role)
	assert.Equal(t, "token-123", result.AccessToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(result.User.PasswordHash), []byte("supersecret")))
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockTokenIssuer))

	users.On("GetByEmail", mock.Anything, "taken@example.fi").
		Return(&domain.User{ID: 1}, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.fi",
		Password: "supersecret",
		Name:     "Someone",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Succeeds(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenIssuer)
	service := NewService(users, tokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	users.On("GetByEmail", mock.Anything, "user@example.fi").
		Return(&domain.User{ID: 7, Email: "user@example.fi", PasswordHash: string(hash), Role: domain.RoleCustomer}, nil)
	tokens.On("GenerateToken", int64(7), "customer").Return("token-777", nil)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.fi",
		Password: "supersecret",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-777", result.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockTokenIssuer))

	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	users.On("GetByEmail", mock.Anything, "user@example.fi").
		Return(&domain.User{ID: 7, PasswordHash: string(hash)}, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.fi",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockTokenIssuer))

	users.On("GetByEmail", mock.Anything, "ghost@example.fi").
		Return(nil, repository.ErrNotFound)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.fi",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
