package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/seed"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func newSeeder(s *memory.Store) *seed.Seeder {
	engine := inventory.NewStockEngine(logger.Nop())
	return &seed.Seeder{
		UserRepo:    s.Users(),
		ArticleRepo: s.Articles(),
		Users:       usecase.NewUserUseCase(s.Users(), auth.BcryptHasher{Cost: bcrypt.MinCost}),
		Articles:    usecase.NewArticleUseCase(s.Articles(), s.TxRunner(), engine, nil),
		Sales:       billing.NewSaleUseCase(s.TxRunner(), engine, s.Transactions(), nil),
		Purchases:   purchasing.NewPurchaseUseCase(s.TxRunner(), engine, s.Transactions(), nil),
	}
}

func TestSeeder_AlmacenVacio(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(memory.Options{LockTimeout: time.Second})

	res, err := newSeeder(s).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Users: 2, Articles: 7, Sales: 1, Purchases: 1}, res)

	active, err := s.Articles().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 6)

	phone, err := s.Articles().GetByBarcode(ctx, "8400000001")
	require.NoError(t, err)
	assert.Equal(t, 19, phone.Stock)

	oil, err := s.Articles().GetByBarcode(ctx, "8400000003")
	require.NoError(t, err)
	assert.Equal(t, 48, oil.Stock)

	tablet, err := s.Articles().GetByBarcode(ctx, "8400000002")
	require.NoError(t, err)
	assert.Equal(t, 20, tablet.Stock)

	old, err := s.Articles().GetByBarcode(ctx, "8400000007")
	require.NoError(t, err)
	assert.True(t, old.Discontinued)
	assert.Equal(t, 5, old.Stock)

	user, err := s.Users().GetByUsername(ctx, "user")
	require.NoError(t, err)
	assert.True(t, user.Seller)
	assert.Equal(t, entity.RoleUser, user.Role)

	sales, err := s.Transactions().List(ctx, repository.TransactionFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "615.97", sales[0].Total.StringFixed(2))
	assert.Equal(t, user.ID, sales[0].UserID)
}

func TestSeeder_Idempotente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(memory.Options{LockTimeout: time.Second})
	seeder := newSeeder(s)

	_, err := seeder.Run(ctx)
	require.NoError(t, err)
	res, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, res)

	n, err := s.Articles().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
