package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProposedFromRequest convierte las líneas del request; el precio que envíe el cliente se descarta.
func ProposedFromRequest(in []dto.LineRequest) []ProposedLine {
	out := make([]ProposedLine, len(in))
	for i, l := range in {
		out[i] = ProposedLine{ArticleID: l.ArticleID, Quantity: l.Quantity}
	}
	return out
}

// ListTransactions listado de ventas o compras por rango de fechas (inclusivo) y/o usuario.
func ListTransactions(
	ctx context.Context,
	repo repository.TransactionRepository,
	kind entity.TransactionKind,
	q dto.TransactionQuery,
) (*dto.TransactionListResponse, error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.Invalid("to", "debe ser posterior a from")
	}
	q.DefaultPage()
	list, err := repo.List(ctx, repository.TransactionFilter{
		Kind:   kind,
		UserID: q.UserID,
		From:   q.From,
		To:     q.To,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *dto.ToTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}
