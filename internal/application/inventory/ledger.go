package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProposedLine línea tal como la propone el llamador: solo artículo y cantidad.
type ProposedLine struct {
	ArticleID string
	Quantity  int
}

// ValidateLines validación estructural común a ventas y compras.
func ValidateLines(lines []ProposedLine) error {
	if len(lines) == 0 {
		return domain.Invalid("lines", "debe contener al menos una línea")
	}
	for i, l := range lines {
		if l.ArticleID == "" {
			return domain.Invalid(fmt.Sprintf("lines[%d].article_id", i), "es obligatorio")
		}
		if l.Quantity < 1 {
			return domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "debe ser >= 1")
		}
	}
	return nil
}

// DuplicateArticleIDs IDs repetidos entre las líneas propuestas, cada uno una vez.
func DuplicateArticleIDs(lines []ProposedLine) []string {
	asLines := make([]entity.Line, len(lines))
	for i, l := range lines {
		asLines[i] = entity.Line{ArticleID: l.ArticleID, Quantity: l.Quantity}
	}
	return domaininv.DuplicateArticleIDs(asLines)
}

// Record aplica el movimiento de las líneas y persiste la transacción con precios canónicos leídos
// bajo bloqueo, subtotales, total y fecha del servidor. Lo que el llamador diga de precios se ignora.
func (e *StockEngine) Record(
	ctx context.Context,
	articles repository.ArticleRepository,
	transactions repository.TransactionRepository,
	kind entity.TransactionKind,
	userID string,
	proposed []ProposedLine,
	guards ...Guard,
) (*entity.Transaction, error) {
	txID := uuid.New().String()
	lines := make([]entity.Line, len(proposed))
	for i, p := range proposed {
		lines[i] = entity.Line{ArticleID: p.ArticleID, Quantity: p.Quantity}
	}

	locked, err := e.Apply(ctx, articles, domaininv.DeltasFor(kind, lines), guards...)
	if err != nil {
		return nil, err
	}

	for i, l := range lines {
		price := locked[l.ArticleID].PriceFor(kind)
		lines[i] = entity.NewLine(uuid.New().String(), txID, l.ArticleID, l.Quantity, price)
	}
	tx := &entity.Transaction{
		ID:     txID,
		Kind:   kind,
		UserID: userID,
		Date:   e.now().UTC(),
		Lines:  lines,
	}
	tx.Total = tx.SumLines()

	if err := transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Reverse bloquea la transacción, aplica los deltas inversos de sus cantidades guardadas y la elimina
// junto con sus líneas. Si el inverso dejaría stock negativo no cambia nada.
func (e *StockEngine) Reverse(
	ctx context.Context,
	articles repository.ArticleRepository,
	transactions repository.TransactionRepository,
	kind entity.TransactionKind,
	id string,
) (*entity.Transaction, error) {
	tx, err := transactions.GetForUpdate(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.NotFound(kind.Entity(), id)
	}
	if _, err := e.Apply(ctx, articles, domaininv.ReversalFor(tx)); err != nil {
		return nil, err
	}
	if err := transactions.Delete(ctx, kind, id); err != nil {
		return nil, err
	}
	return tx, nil
}
