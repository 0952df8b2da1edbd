package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicateBarcode    = errors.New("código de barras duplicado")
	ErrDuplicateLineItem   = errors.New("artículos repetidos en la transacción")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrDiscontinuedArticle = errors.New("artículo descatalogado")
	ErrUsernameTaken       = errors.New("el nombre de usuario ya existe")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
)

// ValidationError campo ausente o mal formado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError entidad inexistente.
type NotFoundError struct {
	Entity string // article, sale, purchase, user
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no existe %s con id %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateBarcodeError el código de barras ya pertenece a otro artículo.
type DuplicateBarcodeError struct {
	Barcode string
}

func (e *DuplicateBarcodeError) Error() string {
	return fmt.Sprintf("ya existe un artículo con el código de barras %s", e.Barcode)
}

func (e *DuplicateBarcodeError) Unwrap() error { return ErrDuplicateBarcode }

// DuplicateLineItemError la misma venta referencia un artículo en más de una línea.
type DuplicateLineItemError struct {
	ArticleIDs []string
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("no se permiten artículos repetidos en la misma venta. IDs repetidos: [%s]",
		strings.Join(e.ArticleIDs, ", "))
}

func (e *DuplicateLineItemError) Unwrap() error { return ErrDuplicateLineItem }

// InsufficientStockError el stock resultante sería negativo.
type InsufficientStockError struct {
	ArticleID   string
	ArticleName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %q (%s): disponible %d, solicitado %d",
		e.ArticleName, e.ArticleID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DiscontinuedArticleError no se pueden comprar artículos descatalogados.
type DiscontinuedArticleError struct {
	ArticleID   string
	ArticleName string
}

func (e *DiscontinuedArticleError) Error() string {
	return fmt.Sprintf("no se puede comprar el artículo %q (%s) porque está descatalogado", e.ArticleName, e.ArticleID)
}

func (e *DiscontinuedArticleError) Unwrap() error { return ErrDiscontinuedArticle }

// IsBusiness indica si el error pertenece a la taxonomía de dominio (no es de infraestructura).
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicateBarcode, ErrDuplicateLineItem,
		ErrInsufficientStock, ErrDiscontinuedArticle, ErrUsernameTaken,
		ErrUnauthorized, ErrForbidden, ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
