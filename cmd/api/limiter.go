package main

import (
	"github.com/ulule/limiter/v3"

	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// mustLimiter construye el limitador del login; rate vacío lo desactiva.
func mustLimiter(rate string, log *logger.Logger) *limiter.Limiter {
	if rate == "" {
		log.Warn().Msg("rate limit de login desactivado")
		return nil
	}
	l, err := httpRouter.NewLimiter(rate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", rate).Msg("LOGIN_RATE_LIMIT inválido")
	}
	return l
}
