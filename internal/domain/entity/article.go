package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article representa un artículo vendible del catálogo.
// Stock solo cambia por el motor de movimientos o por edición explícita del catálogo.
type Article struct {
	ID            string
	Name          string
	Description   string
	Barcode       string // único; inmutable después de crear
	Family        string // familia/categoría
	PhotoURL      string
	SalePrice     decimal.Decimal // precio de venta (> 0)
	PurchasePrice decimal.Decimal // precio de compra (> 0)
	Stock         int             // nunca negativo después de confirmar
	Discontinued  bool            // borrado lógico
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasStock indica si hay al menos quantity unidades disponibles.
func (a *Article) HasStock(quantity int) bool {
	return a.Stock >= quantity
}

// PriceFor devuelve el precio canónico según el tipo de transacción.
func (a *Article) PriceFor(kind TransactionKind) decimal.Decimal {
	if kind == KindPurchase {
		return a.PurchasePrice
	}
	return a.SalePrice
}
