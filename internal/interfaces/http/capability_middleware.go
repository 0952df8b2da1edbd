package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
)

// RequireCapability corta la petición antes del handler si el principal no tiene la capacidad.
// Debe usarse DESPUÉS de AuthMiddleware. Los casos de uso vuelven a consultar la puerta;
// esto solo evita parsear cuerpos de peticiones que serán rechazadas.
//
// Comportamiento:
//   - 401 Unauthorized → no hay principal en el contexto.
//   - 403 Forbidden    → el rol no concede la capacidad.
func RequireCapability(cap access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "principal no encontrado en el token",
			})
		}
		if !p.Can(cap) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el usuario '" + p.Username + "' no tiene permiso para " + string(cap),
			})
		}
		return c.Next()
	}
}
