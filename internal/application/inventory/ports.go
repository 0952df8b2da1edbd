package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de stock: si fn devuelve error no queda rastro.
// Las implementaciones pueden reintentar fn ante conflictos de bloqueo, por lo que fn debe
// poder repetirse desde cero.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		articleRepo repository.ArticleRepository,
		transactionRepo repository.TransactionRepository,
	) error) error
}
