package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

const dateOnly = "2006-01-02"

// parseTransactionQuery lee user_id, from, to, limit y offset.
// Fechas RFC3339 o YYYY-MM-DD; un "to" sin hora cubre el día completo.
func parseTransactionQuery(c *fiber.Ctx) (dto.TransactionQuery, error) {
	q := dto.TransactionQuery{
		UserID: c.Query("user_id"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 0),
			Offset: c.QueryInt("offset", 0),
		},
	}
	q.DefaultPage()
	if err := validateStruct(q.PageRequest); err != nil {
		return q, err
	}
	var err error
	if q.UserID != "" {
		if q.UserID, err = checkUUID("user_id", q.UserID); err != nil {
			return q, err
		}
	}
	if q.From, err = parseBound(c.Query("from"), "from", false); err != nil {
		return q, err
	}
	if q.To, err = parseBound(c.Query("to"), "to", true); err != nil {
		return q, err
	}
	return q, nil
}

func parseBound(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, domain.Invalid(field, "fecha inválida (RFC3339 o YYYY-MM-DD)")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
