package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	admin  = &access.Principal{UserID: "u-admin", Username: "admin", Role: entity.RoleAdmin}
	seller = &access.Principal{UserID: "u-seller", Username: "user", Role: entity.RoleUser, Seller: true}
)

type fixture struct {
	store     *memory.Store
	purchases *purchasing.PurchaseUseCase
	sales     *billing.SaleUseCase
	articles  *usecase.ArticleUseCase
}

func newFixture(t *testing.T, articles ...*entity.Article) *fixture {
	t.Helper()
	s := memory.NewStore(memory.Options{LockTimeout: time.Second, MaxRetries: 3})
	for _, a := range articles {
		require.NoError(t, s.Articles().Create(context.Background(), a))
	}
	engine := inventory.NewStockEngine(logger.Nop())
	return &fixture{
		store:     s,
		purchases: purchasing.NewPurchaseUseCase(s.TxRunner(), engine, s.Transactions(), logger.Nop()),
		sales:     billing.NewSaleUseCase(s.TxRunner(), engine, s.Transactions(), logger.Nop()),
		articles:  usecase.NewArticleUseCase(s.Articles(), s.TxRunner(), engine, logger.Nop()),
	}
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	a, err := f.store.Articles().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Stock
}

func article(id string, stock int) *entity.Article {
	return &entity.Article{
		ID: id, Name: "Artículo " + id, Barcode: "bc-" + id, Family: "General",
		SalePrice: decimal.NewFromInt(9), PurchasePrice: decimal.RequireFromString("4.25"),
		Stock: stock,
	}
}

func req(lines ...dto.LineRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{Lines: lines}
}

func line(articleID string, qty int) dto.LineRequest {
	return dto.LineRequest{ArticleID: articleID, Quantity: qty}
}

func TestPurchase_ScenarioB(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("y", 5))

	p, err := f.purchases.Create(ctx, admin, req(line("y", 5)))
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, "y"))
	assert.True(t, decimal.RequireFromString("21.25").Equal(p.Total), "total %s", p.Total)

	require.NoError(t, f.articles.SoftDelete(ctx, admin, "y"))

	_, err = f.purchases.Create(ctx, admin, req(line("y", 1)))
	var disc *domain.DiscontinuedArticleError
	require.ErrorAs(t, err, &disc)
	assert.Equal(t, "y", disc.ArticleID)
	assert.Equal(t, 10, f.stock(t, "y"))

	_, err = f.sales.Create(ctx, seller, dto.CreateTransactionRequest{Lines: []dto.LineRequest{line("y", 3)}})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, "y"))
}

func TestPurchase_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("a", 2), article("b", 0))

	p, err := f.purchases.Create(ctx, admin, req(line("a", 3), line("b", 4)))
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, "a"))
	assert.Equal(t, 4, f.stock(t, "b"))

	require.NoError(t, f.purchases.Cancel(ctx, admin, p.ID))
	assert.Equal(t, 2, f.stock(t, "a"))
	assert.Equal(t, 0, f.stock(t, "b"))

	_, err = f.purchases.GetByID(ctx, admin, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchase_CancelTrasVentasSeRechazaEntera(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("a", 0), article("b", 0))

	p, err := f.purchases.Create(ctx, admin, req(line("a", 5), line("b", 5)))
	require.NoError(t, err)
	_, err = f.sales.Create(ctx, seller, dto.CreateTransactionRequest{Lines: []dto.LineRequest{line("b", 4)}})
	require.NoError(t, err)

	err = f.purchases.Cancel(ctx, admin, p.ID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "b", insufficient.ArticleID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 5, f.stock(t, "a"))
	assert.Equal(t, 1, f.stock(t, "b"))

	still, err := f.purchases.GetByID(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, still.ID)
}

func TestPurchase_LineasRepetidasSeNetean(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("a", 1))

	p, err := f.purchases.Create(ctx, admin, req(line("a", 2), line("a", 3)))
	require.NoError(t, err)
	assert.Len(t, p.Lines, 2)
	assert.Equal(t, 6, f.stock(t, "a"))

	require.NoError(t, f.purchases.Cancel(ctx, admin, p.ID))
	assert.Equal(t, 1, f.stock(t, "a"))
}

func TestPurchase_SoloAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("a", 1))

	_, err := f.purchases.Create(ctx, seller, req(line("a", 1)))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.purchases.List(ctx, seller, dto.TransactionQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, 1, f.stock(t, "a"))
}

func TestPurchase_ListPorFecha(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, article("a", 1))

	_, err := f.purchases.Create(ctx, admin, req(line("a", 1)))
	require.NoError(t, err)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	list, err := f.purchases.List(ctx, admin, dto.TransactionQuery{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, string(entity.KindPurchase), list.Items[0].Kind)
}
