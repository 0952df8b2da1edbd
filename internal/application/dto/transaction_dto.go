package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateTransactionRequest body para POST /api/sales y /api/purchases.
// Fecha, precios y total los asigna el servidor; lo que envíe el cliente se ignora.
type CreateTransactionRequest struct {
	Lines []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// LineRequest línea artículo/cantidad.
type LineRequest struct {
	ArticleID string           `json:"article_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // ignorado
}

// TransactionResponse venta o compra con sus líneas.
type TransactionResponse struct {
	ID     string          `json:"id"`
	Kind   string          `json:"kind"`
	UserID string          `json:"user_id"`
	Date   time.Time       `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Lines  []LineResponse  `json:"lines"`
}

// LineResponse línea en la respuesta.
type LineResponse struct {
	ID        string          `json:"id"`
	ArticleID string          `json:"article_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// TransactionListResponse lista de ventas o compras.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// TransactionQuery filtros de listado; From/To inclusivos.
type TransactionQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
	PageRequest
}

// ToTransactionResponse mapea la entidad a la respuesta.
func ToTransactionResponse(t *entity.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	lines := make([]LineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, LineResponse{
			ID:        l.ID,
			ArticleID: l.ArticleID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return &TransactionResponse{
		ID:     t.ID,
		Kind:   string(t.Kind),
		UserID: t.UserID,
		Date:   t.Date,
		Total:  t.Total,
		Lines:  lines,
	}
}
