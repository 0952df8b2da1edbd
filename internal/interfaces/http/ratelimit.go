package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// NewLimiter construye un limitador en memoria a partir de un rate en formato "10-M".
func NewLimiter(rate string) (*limiter.Limiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), r), nil
}

// RateLimit limita peticiones por IP con la instancia dada.
func RateLimit(l *limiter.Limiter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		ctx, err := l.Get(c.UserContext(), ip)
		if err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("no se pudo consultar el rate limit")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
		}
		if ctx.Reached {
			log.Warn().Str("ip", ip).Int64("limit", ctx.Limit).Msg("rate limit excedido")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
