package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateArticleRequest entrada para crear un artículo. Los precios deben ser > 0 (se valida en el caso de uso).
type CreateArticleRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Barcode       string          `json:"barcode" validate:"required,min=1,max=64"`
	Family        string          `json:"family" validate:"required,min=1,max=100"`
	PhotoURL      string          `json:"photo_url" validate:"omitempty,url"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock" validate:"min=0"`
}

// UpdateArticleRequest entrada para editar un artículo. Barcode solo se acepta si coincide con el actual.
// Stock se fija de forma explícita (gestión de catálogo), bajo bloqueo del artículo.
// Descatalogar solo es posible con DELETE y no tiene vuelta atrás.
type UpdateArticleRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	Barcode       *string          `json:"barcode"`
	Family        *string          `json:"family" validate:"omitempty,min=1,max=100"`
	PhotoURL      *string          `json:"photo_url" validate:"omitempty,url"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Stock         *int             `json:"stock" validate:"omitempty,min=0"`
}

// AdjustStockRequest suma delta (positivo o negativo) al stock.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Barcode       string          `json:"barcode"`
	Family        string          `json:"family"`
	PhotoURL      string          `json:"photo_url,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	Discontinued  bool            `json:"discontinued"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ArticleListResponse lista de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
}

// StockCheckResponse resultado de HasSufficientStock.
type StockCheckResponse struct {
	ArticleID  string `json:"article_id"`
	Quantity   int    `json:"quantity"`
	Sufficient bool   `json:"sufficient"`
}

// BarcodeExistsResponse resultado de la verificación de código de barras.
type BarcodeExistsResponse struct {
	Barcode string `json:"barcode"`
	Exists  bool   `json:"exists"`
}
