package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ArticleRepository define el puerto de persistencia para Article (DIP).
// Los métodos devuelven (nil, nil) cuando el artículo no existe.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	// GetForUpdate obtiene el artículo y lo bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Article, error)
	// Update persiste todos los campos editables salvo barcode, stock y discontinued (solo SoftDelete lo fija).
	Update(ctx context.Context, article *entity.Article) error
	// UpdateStock fija el stock (usado por el motor de movimientos).
	UpdateStock(ctx context.Context, id string, stock int) error
	SoftDelete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*entity.Article, error)
	ListByFamily(ctx context.Context, family string) ([]*entity.Article, error)
	SearchByName(ctx context.Context, text string, caseInsensitive bool) ([]*entity.Article, error)
	Count(ctx context.Context) (int, error)
}
