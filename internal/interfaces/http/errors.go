package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// errorStatus tabla error de dominio -> (status, código).
var errorStatus = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicateLineItem, fiber.StatusBadRequest, "DUPLICATE_LINE_ITEM"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateBarcode, fiber.StatusConflict, "DUPLICATE_BARCODE"},
	{domain.ErrUsernameTaken, fiber.StatusConflict, "USERNAME_TAKEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrDiscontinuedArticle, fiber.StatusUnprocessableEntity, "DISCONTINUED_ARTICLE"},
}

// writeError traduce err a la respuesta HTTP. Los errores de infraestructura se registran
// y el cliente solo recibe un 500 INTERNAL sin detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return c.Status(e.status).JSON(dto.ErrorResponse{Code: e.code, Message: err.Error(), Details: errorDetails(err)})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// errorDetails IDs que el error enumera (artículos repetidos en una venta).
func errorDetails(err error) []string {
	var dup *domain.DuplicateLineItemError
	if errors.As(err, &dup) {
		return dup.ArticleIDs
	}
	return nil
}

// ErrorHandler para fiber.Config: cubre errores que no pasan por writeError (404 de ruta, body demasiado grande, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
