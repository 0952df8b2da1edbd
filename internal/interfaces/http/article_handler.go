package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ArticleHandler maneja las peticiones HTTP del catálogo de artículos (protegido).
type ArticleHandler struct {
	uc  *usecase.ArticleUseCase
	log *logger.Logger
}

// NewArticleHandler construye el handler.
func NewArticleHandler(uc *usecase.ArticleUseCase, log *logger.Logger) *ArticleHandler {
	return &ArticleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar artículos activos
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ArticleListResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByBarcode godoc
// @Summary      Buscar artículo por código de barras
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de barras"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/barcode/{code} [get]
func (h *ArticleHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.uc.FindByBarcode(c.UserContext(), GetPrincipal(c), c.Params("code"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByFamily godoc
// @Summary      Listar artículos activos de una familia
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        family  path  string  true  "Familia"
// @Success      200     {object}  dto.ArticleListResponse
// @Router       /api/articles/family/{family} [get]
func (h *ArticleHandler) ListByFamily(c *fiber.Ctx) error {
	out, err := h.uc.FindByFamily(c.UserContext(), GetPrincipal(c), c.Params("family"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar artículos activos por nombre
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true   "Texto a buscar"
// @Param        ci   query  bool    false  "Ignorar mayúsculas"  default(true)
// @Success      200  {object}  dto.ArticleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/articles/search [get]
func (h *ArticleHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.SearchByName(c.UserContext(), GetPrincipal(c), c.Query("q"), c.QueryBool("ci", true))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// VerifyBarcode godoc
// @Summary      Verificar si un código de barras ya existe
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200      {object}  dto.BarcodeExistsResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Router       /api/articles/verify/{barcode} [get]
func (h *ArticleHandler) VerifyBarcode(c *fiber.Ctx) error {
	out, err := h.uc.BarcodeExists(c.UserContext(), GetPrincipal(c), c.Params("barcode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateArticleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Descatalogar artículo (borrado lógico)
// @Tags         articles
// @Security     Bearer
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.SoftDelete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Ajustar stock manualmente (delta positivo o negativo)
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/stock [patch]
func (h *ArticleHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.AdjustStockRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.AdjustStock(c.UserContext(), GetPrincipal(c), id, in.Delta)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CheckStock godoc
// @Summary      Consultar si hay stock suficiente
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del artículo"
// @Param        quantity  query  int     true  "Cantidad requerida"
// @Success      200       {object}  dto.StockCheckResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/stock [get]
func (h *ArticleHandler) CheckStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.HasSufficientStock(c.UserContext(), GetPrincipal(c), id, c.QueryInt("quantity", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
