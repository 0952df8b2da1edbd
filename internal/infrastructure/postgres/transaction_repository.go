package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo persiste ventas y compras (cabecera + líneas) sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la cabecera y sus líneas. Debe ejecutarse dentro de una tx para ser atómico.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO transactions (id, kind, user_id, date, total) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, string(t.Kind), nullable(t.UserID), t.Date, t.Total,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	for i, l := range t.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transaction_lines (id, transaction_id, position, article_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, t.ID, i, l.ArticleID, l.Quantity, l.UnitPrice, l.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert transaction line: %w", err)
		}
	}
	return nil
}

func (r *TransactionRepo) getHeader(ctx context.Context, query string, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	var (
		t      entity.Transaction
		k      string
		userID *string
	)
	err := r.q.QueryRow(ctx, query, id, string(kind)).Scan(&t.ID, &k, &userID, &t.Date, &t.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.Kind = entity.TransactionKind(k)
	t.UserID = deref(userID)
	if err := r.loadLines(ctx, []*entity.Transaction{&t}); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID obtiene la transacción del tipo indicado con sus líneas.
func (r *TransactionRepo) GetByID(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	return r.getHeader(ctx,
		`SELECT id, kind, user_id, date, total FROM transactions WHERE id = $1 AND kind = $2`, kind, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera (SELECT FOR UPDATE).
func (r *TransactionRepo) GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	return r.getHeader(ctx,
		`SELECT id, kind, user_id, date, total FROM transactions WHERE id = $1 AND kind = $2 FOR UPDATE`, kind, id)
}

// Delete elimina la cabecera; ON DELETE CASCADE elimina las líneas.
func (r *TransactionRepo) Delete(ctx context.Context, kind entity.TransactionKind, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(kind.Entity(), id)
	}
	return nil
}

// List filtra por tipo, usuario y rango de fechas (inclusivo), ordenado por fecha.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.Kind != "" {
		add("kind = ?", string(f.Kind))
	}
	if f.UserID != "" {
		add("user_id = ?", f.UserID)
	}
	if f.From != nil {
		add("date >= ?", *f.From)
	}
	if f.To != nil {
		add("date <= ?", *f.To)
	}

	query := `SELECT id, kind, user_id, date, total FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var out []*entity.Transaction
	for rows.Next() {
		var (
			t      entity.Transaction
			k      string
			userID *string
		)
		if err := rows.Scan(&t.ID, &k, &userID, &t.Date, &t.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = entity.TransactionKind(k)
		t.UserID = deref(userID)
		out = append(out, &t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if err := r.loadLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadLines carga las líneas de varias cabeceras en una sola consulta.
func (r *TransactionRepo) loadLines(ctx context.Context, txs []*entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Transaction, len(txs))
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, article_id, quantity, unit_price, subtotal
		FROM transaction_lines WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.Line
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ArticleID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return fmt.Errorf("scan transaction line: %w", err)
		}
		if t, ok := byID[l.TransactionID]; ok {
			t.Lines = append(t.Lines, l)
		}
	}
	return rows.Err()
}
