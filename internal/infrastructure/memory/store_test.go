package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func newStore() *memory.Store {
	return memory.NewStore(memory.Options{LockTimeout: 50 * time.Millisecond, MaxRetries: 1})
}

func article(id, name, barcode string, stock int) *entity.Article {
	return &entity.Article{
		ID: id, Name: name, Barcode: barcode, Family: "Bebidas",
		SalePrice: decimal.NewFromInt(10), PurchasePrice: decimal.NewFromInt(6), Stock: stock,
	}
}

func TestArticleRepository_BarcodeUnico(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Articles()

	require.NoError(t, repo.Create(ctx, article("a1", "Agua", "840", 1)))
	err := repo.Create(ctx, article("a2", "Otra agua", "840", 1))

	var dup *domain.DuplicateBarcodeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "840", dup.Barcode)
}

func TestArticleRepository_UpdateConservaBarcodeYStock(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Articles()
	require.NoError(t, repo.Create(ctx, article("a1", "Agua", "840", 7)))

	changed := article("a1", "Agua mineral", "999", 0)
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Agua mineral", got.Name)
	assert.Equal(t, "840", got.Barcode)
	assert.Equal(t, 7, got.Stock)
}

func TestArticleRepository_UpdateNoTocaDiscontinued(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Articles()
	require.NoError(t, repo.Create(ctx, article("a1", "Agua", "840", 7)))
	require.NoError(t, repo.SoftDelete(ctx, "a1"))

	changed := article("a1", "Agua mineral", "840", 7)
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Discontinued)
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestArticleRepository_ListadosFiltranDescatalogados(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Articles()
	require.NoError(t, repo.Create(ctx, article("a1", "Café Ñandú", "1", 1)))
	require.NoError(t, repo.Create(ctx, article("a2", "Café viejo", "2", 1)))
	require.NoError(t, repo.SoftDelete(ctx, "a2"))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a1", active[0].ID)

	found, err := repo.SearchByName(ctx, "ñandú", true)
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = repo.SearchByName(ctx, "ñandú", false)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.SearchByName(ctx, "CAFE NANDU", true)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a1", found[0].ID)

	found, err = repo.SearchByName(ctx, "Cafe", false)
	require.NoError(t, err)
	assert.Empty(t, found)

	byCode, err := repo.GetByBarcode(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.True(t, byCode.Discontinued)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTxRunner_RollbackNoDejaRastro(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.Articles().Create(ctx, article("a1", "Agua", "840", 5)))

	boom := errors.New("boom")
	err := s.TxRunner().Run(ctx, func(articles repository.ArticleRepository, txs repository.TransactionRepository) error {
		require.NoError(t, articles.UpdateStock(ctx, "a1", 1))
		require.NoError(t, txs.Create(ctx, &entity.Transaction{ID: "t1", Kind: entity.KindSale}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := s.Articles().GetByID(ctx, "a1")
	assert.Equal(t, 5, got.Stock)
	tx, _ := s.Transactions().GetByID(ctx, entity.KindSale, "t1")
	assert.Nil(t, tx)
}

func TestTxRunner_CommitVisible(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.Articles().Create(ctx, article("a1", "Agua", "840", 5)))

	err := s.TxRunner().Run(ctx, func(articles repository.ArticleRepository, txs repository.TransactionRepository) error {
		a, err := articles.GetForUpdate(ctx, "a1")
		require.NoError(t, err)
		if err := articles.UpdateStock(ctx, a.ID, a.Stock-2); err != nil {
			return err
		}
		return txs.Create(ctx, &entity.Transaction{
			ID: "t1", Kind: entity.KindSale, Date: time.Now().UTC(),
			Lines: []entity.Line{{ID: "l1", TransactionID: "t1", ArticleID: "a1", Quantity: 2}},
		})
	})
	require.NoError(t, err)

	got, _ := s.Articles().GetByID(ctx, "a1")
	assert.Equal(t, 3, got.Stock)

	tx, _ := s.Transactions().GetByID(ctx, entity.KindSale, "t1")
	require.NotNil(t, tx)
	assert.Len(t, tx.Lines, 1)

	other, _ := s.Transactions().GetByID(ctx, entity.KindPurchase, "t1")
	assert.Nil(t, other)
}

func TestTxRunner_BloqueoAgotadoEsConflicto(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.Articles().Create(ctx, article("a1", "Agua", "840", 5)))

	holding := make(chan struct{})
	releaseHolder := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.TxRunner().Run(ctx, func(articles repository.ArticleRepository, _ repository.TransactionRepository) error {
			_, err := articles.GetForUpdate(ctx, "a1")
			close(holding)
			<-releaseHolder
			return err
		})
	}()
	<-holding

	err := s.TxRunner().Run(ctx, func(articles repository.ArticleRepository, _ repository.TransactionRepository) error {
		_, err := articles.GetForUpdate(ctx, "a1")
		return err
	})
	close(releaseHolder)
	wg.Wait()

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransactionRepository_ListFiltra(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Transactions()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.Transaction{ID: "s1", Kind: entity.KindSale, UserID: "u1", Date: base}))
	require.NoError(t, repo.Create(ctx, &entity.Transaction{ID: "s2", Kind: entity.KindSale, UserID: "u2", Date: base.AddDate(0, 0, 2)}))
	require.NoError(t, repo.Create(ctx, &entity.Transaction{ID: "p1", Kind: entity.KindPurchase, UserID: "u1", Date: base}))

	all, err := repo.List(ctx, repository.TransactionFilter{Kind: entity.KindSale})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].ID)

	byUser, err := repo.List(ctx, repository.TransactionFilter{Kind: entity.KindSale, UserID: "u2"})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "s2", byUser[0].ID)

	to := base.AddDate(0, 0, 1)
	inRange, err := repo.List(ctx, repository.TransactionFilter{Kind: entity.KindSale, From: &base, To: &to})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "s1", inRange[0].ID)

	require.NoError(t, repo.Delete(ctx, entity.KindSale, "s1"))
	err = repo.Delete(ctx, entity.KindSale, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_UsernameUnico(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Users()

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Username: "admin", Role: entity.RoleAdmin}))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u2", Username: "user", Role: entity.RoleUser}))

	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u3", Username: "admin"}), domain.ErrUsernameTaken)
	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: "u2", Username: "admin"}), domain.ErrUsernameTaken)

	admins, err := repo.ListByRole(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "user", page[0].Username)
}
