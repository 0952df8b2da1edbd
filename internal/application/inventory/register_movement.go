package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Guard validación adicional por artículo que aporta el orquestador (ej. política de descatalogados).
// Se evalúa bajo bloqueo, antes de comprobar el stock.
type Guard func(article *entity.Article, delta inventory.Delta) error

// StockEngine aplica deltas de stock de forma indivisible: bloquea, valida todo y solo entonces escribe.
// Debe usarse con repositorios atados a una transacción (TxRunner.Run).
type StockEngine struct {
	log *logger.Logger
	now func() time.Time
}

// NewStockEngine construye el motor.
func NewStockEngine(log *logger.Logger) *StockEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &StockEngine{log: log, now: time.Now}
}

// Apply neta los deltas por artículo, bloquea cada artículo en orden ascendente de ID (SELECT FOR UPDATE),
// valida en orden de línea (existencia, guards, stock resultante >= 0) y escribe el stock nuevo.
// Devuelve los artículos leídos bajo bloqueo, ya con el stock actualizado.
func (e *StockEngine) Apply(
	ctx context.Context,
	articleRepo repository.ArticleRepository,
	deltas []inventory.Delta,
	guards ...Guard,
) (map[string]*entity.Article, error) {
	netted := inventory.Net(deltas)

	// Fase de bloqueo: orden total para evitar interbloqueos
	locked := make(map[string]*entity.Article, len(netted))
	for _, id := range inventory.LockOrder(netted) {
		a, err := articleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if a != nil {
			locked[id] = a
		}
	}

	// Fase de validación: en orden de línea para que el primer error sea el de la primera línea culpable
	for _, d := range netted {
		a, ok := locked[d.ArticleID]
		if !ok {
			return nil, domain.NotFound("article", d.ArticleID)
		}
		for _, g := range guards {
			if err := g(a, d); err != nil {
				return nil, err
			}
		}
		if a.Stock+d.Quantity < 0 {
			e.log.Debug().
				Str("article_id", a.ID).
				Int("stock", a.Stock).
				Int("delta", d.Quantity).
				Msg("movimiento rechazado por stock insuficiente")
			return nil, &domain.InsufficientStockError{
				ArticleID:   a.ID,
				ArticleName: a.Name,
				Available:   a.Stock,
				Requested:   -d.Quantity,
			}
		}
	}

	// Fase de aplicación: nada se escribe hasta que todos los deltas validan
	now := e.now()
	for _, d := range netted {
		if d.Quantity == 0 {
			continue
		}
		a := locked[d.ArticleID]
		newStock := a.Stock + d.Quantity
		if err := articleRepo.UpdateStock(ctx, a.ID, newStock); err != nil {
			return nil, err
		}
		a.Stock = newStock
		a.UpdatedAt = now
	}
	return locked, nil
}

// RejectDiscontinued guard de compras: un artículo descatalogado no admite entradas.
func RejectDiscontinued(article *entity.Article, _ inventory.Delta) error {
	if article.Discontinued {
		return &domain.DiscontinuedArticleError{ArticleID: article.ID, ArticleName: article.Name}
	}
	return nil
}
