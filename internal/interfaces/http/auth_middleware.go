package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// LocalPrincipal key de c.Locals con el *access.Principal autenticado.
const LocalPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT y deja el principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if id.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol"})
		}
		c.Locals(LocalPrincipal, &access.Principal{
			UserID:   id.UserID,
			Username: id.Username,
			Role:     id.Role,
			Seller:   id.Seller,
		})
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (nil si la ruta no pasó por AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) *access.Principal {
	p, _ := c.Locals(LocalPrincipal).(*access.Principal)
	return p
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.UserID
	}
	return ""
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.Role
	}
	return ""
}
