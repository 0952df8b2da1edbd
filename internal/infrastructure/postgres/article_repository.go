package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, name, description, barcode, family, photo_url, sale_price, purchase_price,
	stock, discontinued, created_at, updated_at`

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Barcode, &a.Family, &a.PhotoURL, &a.SalePrice, &a.PurchasePrice,
		&a.Stock, &a.Discontinued, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un nuevo artículo. El índice único de barcode resuelve altas concurrentes.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Barcode, a.Family, a.PhotoURL, a.SalePrice, a.PurchasePrice,
		a.Stock, a.Discontinued, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "articles_barcode_key") {
			return &domain.DuplicateBarcodeError{Barcode: a.Barcode}
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetByID obtiene un artículo por ID.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, "get article", `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, "get article for update", `SELECT `+articleColumns+` FROM articles WHERE id = $1 FOR UPDATE`, id)
}

// GetByBarcode obtiene un artículo por código de barras (incluidos descatalogados).
func (r *ArticleRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Article, error) {
	return r.getOne(ctx, "get article by barcode", `SELECT `+articleColumns+` FROM articles WHERE barcode = $1`, barcode)
}

// Update actualiza los campos editables. barcode, stock y discontinued no se tocan.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles
		SET name = $2, description = $3, family = $4, photo_url = $5, sale_price = $6, purchase_price = $7,
			updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Family, a.PhotoURL, a.SalePrice, a.PurchasePrice, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("article", a.ID)
	}
	return nil
}

// UpdateStock fija el stock. El CHECK (stock >= 0) de la tabla respalda el invariante.
func (r *ArticleRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	tag, err := r.q.Exec(ctx, `UPDATE articles SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("article", id)
	}
	return nil
}

// SoftDelete marca el artículo como descatalogado.
func (r *ArticleRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE articles SET discontinued = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("article", id)
	}
	return nil
}

func (r *ArticleRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListActive artículos no descatalogados ordenados por nombre.
func (r *ArticleRepo) ListActive(ctx context.Context) ([]*entity.Article, error) {
	return r.list(ctx, "list articles",
		`SELECT `+articleColumns+` FROM articles WHERE NOT discontinued ORDER BY name, id`)
}

// ListByFamily artículos activos de una familia.
func (r *ArticleRepo) ListByFamily(ctx context.Context, family string) ([]*entity.Article, error) {
	return r.list(ctx, "list articles by family",
		`SELECT `+articleColumns+` FROM articles WHERE NOT discontinued AND family = $1 ORDER BY name, id`, family)
}

// SearchByName artículos activos cuyo nombre contiene text. Con caseInsensitive compara con ILIKE y sin acentos.
func (r *ArticleRepo) SearchByName(ctx context.Context, text string, caseInsensitive bool) ([]*entity.Article, error) {
	if !caseInsensitive {
		return r.list(ctx, "search articles",
			`SELECT `+articleColumns+` FROM articles WHERE NOT discontinued AND name LIKE $1 ORDER BY name, id`,
			likePattern(text))
	}
	return r.list(ctx, "search articles",
		`SELECT `+articleColumns+` FROM articles
		WHERE NOT discontinued AND translate(name, $2, $3) ILIKE translate($1, $2, $3)
		ORDER BY name, id`,
		likePattern(text), accentFrom, accentTo)
}

// Count total de artículos, incluidos descatalogados.
func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}
