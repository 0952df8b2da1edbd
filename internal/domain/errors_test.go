package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestTypedErrors_UnwrapToSentinel(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", domain.Invalid("quantity", "debe ser >= 1"), domain.ErrInvalidInput},
		{"not found", domain.NotFound("article", "a1"), domain.ErrNotFound},
		{"barcode", &domain.DuplicateBarcodeError{Barcode: "840"}, domain.ErrDuplicateBarcode},
		{"lines", &domain.DuplicateLineItemError{ArticleIDs: []string{"a1"}}, domain.ErrDuplicateLineItem},
		{"stock", &domain.InsufficientStockError{ArticleID: "a1", Available: 1, Requested: 2}, domain.ErrInsufficientStock},
		{"discontinued", &domain.DiscontinuedArticleError{ArticleID: "a1"}, domain.ErrDiscontinuedArticle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("capa superior: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
			assert.True(t, domain.IsBusiness(wrapped))
		})
	}
}

func TestDuplicateLineItemError_EnumeraIDs(t *testing.T) {
	err := error(&domain.DuplicateLineItemError{ArticleIDs: []string{"a1", "a7"}})

	var dup *domain.DuplicateLineItemError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{"a1", "a7"}, dup.ArticleIDs)
	assert.Contains(t, err.Error(), "a1, a7")
}

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &domain.InsufficientStockError{ArticleID: "a1", ArticleName: "Leche", Available: 3, Requested: 5}
	assert.Contains(t, err.Error(), "disponible 3")
	assert.Contains(t, err.Error(), "solicitado 5")
}

func TestIsBusiness_InfraError(t *testing.T) {
	assert.False(t, domain.IsBusiness(errors.New("connection refused")))
}
