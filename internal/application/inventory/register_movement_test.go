package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func setup(t *testing.T, articles ...*entity.Article) *memory.Store {
	t.Helper()
	s := memory.NewStore(memory.Options{LockTimeout: time.Second})
	for _, a := range articles {
		require.NoError(t, s.Articles().Create(context.Background(), a))
	}
	return s
}

func art(id string, stock int, discontinued bool) *entity.Article {
	return &entity.Article{
		ID: id, Name: "art-" + id, Barcode: "bc-" + id,
		SalePrice: decimal.NewFromInt(5), PurchasePrice: decimal.NewFromInt(3),
		Stock: stock, Discontinued: discontinued,
	}
}

func apply(t *testing.T, s *memory.Store, deltas []domaininv.Delta, guards ...inventory.Guard) (map[string]*entity.Article, error) {
	t.Helper()
	engine := inventory.NewStockEngine(logger.Nop())
	var out map[string]*entity.Article
	err := s.TxRunner().Run(context.Background(), func(articles repository.ArticleRepository, _ repository.TransactionRepository) error {
		var err error
		out, err = engine.Apply(context.Background(), articles, deltas, guards...)
		return err
	})
	return out, err
}

func stockOf(t *testing.T, s *memory.Store, id string) int {
	t.Helper()
	a, err := s.Articles().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Stock
}

func TestStockEngine_AplicaDeltasNetos(t *testing.T) {
	s := setup(t, art("a", 10, false), art("b", 2, false))

	out, err := apply(t, s, []domaininv.Delta{
		{ArticleID: "a", Quantity: -3},
		{ArticleID: "b", Quantity: 4},
		{ArticleID: "a", Quantity: -2},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, stockOf(t, s, "a"))
	assert.Equal(t, 6, stockOf(t, s, "b"))
	assert.Equal(t, 5, out["a"].Stock)
}

func TestStockEngine_StockInsuficienteNoEscribeNada(t *testing.T) {
	s := setup(t, art("a", 10, false), art("b", 1, false))

	_, err := apply(t, s, []domaininv.Delta{
		{ArticleID: "a", Quantity: -3},
		{ArticleID: "b", Quantity: -2},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "b", insufficient.ArticleID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 2, insufficient.Requested)
	assert.Equal(t, 10, stockOf(t, s, "a"))
	assert.Equal(t, 1, stockOf(t, s, "b"))
}

func TestStockEngine_ArticuloInexistente(t *testing.T) {
	s := setup(t, art("a", 10, false))

	_, err := apply(t, s, []domaininv.Delta{{ArticleID: "zzz", Quantity: -1}})

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "article", nf.Entity)
	assert.Equal(t, "zzz", nf.ID)
}

func TestStockEngine_GuardRechaza(t *testing.T) {
	s := setup(t, art("a", 0, false), art("d", 4, true))

	_, err := apply(t, s, []domaininv.Delta{
		{ArticleID: "a", Quantity: 5},
		{ArticleID: "d", Quantity: 5},
	}, inventory.RejectDiscontinued)

	assert.ErrorIs(t, err, domain.ErrDiscontinuedArticle)
	assert.Equal(t, 0, stockOf(t, s, "a"))
	assert.Equal(t, 4, stockOf(t, s, "d"))
}

func TestStockEngine_DescatalogadoSinGuardSePuedeVender(t *testing.T) {
	s := setup(t, art("d", 4, true))

	_, err := apply(t, s, []domaininv.Delta{{ArticleID: "d", Quantity: -4}})
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, s, "d"))
}
