package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distingue ventas (salida de stock) y compras (entrada de stock).
type TransactionKind string

const (
	KindSale     TransactionKind = "SALE"
	KindPurchase TransactionKind = "PURCHASE"
)

// Sign es el signo del movimiento de stock: -1 para ventas, +1 para compras.
func (k TransactionKind) Sign() int {
	if k == KindPurchase {
		return 1
	}
	return -1
}

// Entity nombre de la entidad para mensajes de error.
func (k TransactionKind) Entity() string {
	if k == KindPurchase {
		return "purchase"
	}
	return "sale"
}

// Valid indica si el tipo es conocido.
func (k TransactionKind) Valid() bool {
	return k == KindSale || k == KindPurchase
}

// Transaction cabecera de una venta o compra. Es dueña exclusiva de sus líneas.
type Transaction struct {
	ID     string
	Kind   TransactionKind
	UserID string    // usuario que la registró
	Date   time.Time // asignada por el servidor al confirmar
	Total  decimal.Decimal
	Lines  []Line
}

// Line una línea artículo/cantidad. Solo guarda la FK a su transacción.
type Line struct {
	ID            string
	TransactionID string
	ArticleID     string
	Quantity      int
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
}

// NewLine calcula el subtotal a partir de cantidad y precio unitario.
func NewLine(id, transactionID, articleID string, quantity int, unitPrice decimal.Decimal) Line {
	return Line{
		ID:            id,
		TransactionID: transactionID,
		ArticleID:     articleID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Subtotal:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumLines suma los subtotales de las líneas.
func (t *Transaction) SumLines() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.Lines {
		total = total.Add(l.Subtotal)
	}
	return total
}
