package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

type mockUserRepo struct {
	mock.Mock
	repository.UserRepository
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	var u *entity.User
	if args.Get(0) != nil {
		u = args.Get(0).(*entity.User)
	}
	return u, args.Error(1)
}

func newLogin(t *testing.T) (*auth.AuthUseCase, *mockUserRepo) {
	t.Helper()
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash("user123")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("GetByUsername", mock.Anything, "user").
		Return(&entity.User{ID: "u-1", Username: "user", PasswordHash: hash, Role: entity.RoleUser, Seller: true}, nil)
	repo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)

	cfg := auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "test"}
	return auth.NewAuthUseCase(repo, hasher, cfg), repo
}

func TestLogin_OK(t *testing.T) {
	uc, _ := newLogin(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "user", Password: "user123"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.User.ID)

	id, err := jwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, id.Role)
	assert.True(t, id.Seller)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newLogin(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "user", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newLogin(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := auth.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, h.Verify(hash, "admin123"))
	assert.False(t, h.Verify(hash, "admin124"))
}
