package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionFilter criterios de búsqueda de ventas/compras. Campos vacíos no filtran.
type TransactionFilter struct {
	Kind   entity.TransactionKind
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository define el puerto de persistencia para Transaction y sus líneas.
type TransactionRepository interface {
	// Create guarda cabecera y líneas juntas.
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error)
	// GetForUpdate obtiene la transacción con sus líneas y bloquea la cabecera.
	GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error)
	// Delete elimina la cabecera; las líneas se eliminan en cascada.
	Delete(ctx context.Context, kind entity.TransactionKind, id string) error
	List(ctx context.Context, f TransactionFilter) ([]*entity.Transaction, error)
}
