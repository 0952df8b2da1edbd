package memory

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepository)(nil)

// ArticleRepository artículos en memoria; u nil significa autocommit.
type ArticleRepository struct {
	s *Store
	u *unit
}

func (r *ArticleRepository) write(ctx context.Context, fn func(u *unit) error) error {
	if r.u != nil {
		return fn(r.u)
	}
	return r.s.autocommit(ctx, fn)
}

// Create registra el artículo; el barcode debe ser único.
func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(articleKey(a.ID)); err != nil {
			return err
		}
		if _, ok := u.article(a.ID); ok {
			return domain.ErrConflict
		}
		if r.barcodeTaken(u, a.Barcode) {
			return &domain.DuplicateBarcodeError{Barcode: a.Barcode}
		}
		u.articles[a.ID] = *a
		u.created[a.ID] = struct{}{}
		return nil
	})
}

func (r *ArticleRepository) barcodeTaken(u *unit, barcode string) bool {
	for _, a := range u.articles {
		if a.Barcode == barcode {
			return true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.barcodes[barcode]
	return ok
}

// GetByID lectura sin bloqueo.
func (r *ArticleRepository) GetByID(_ context.Context, id string) (*entity.Article, error) {
	if r.u != nil {
		if a, ok := r.u.article(id); ok {
			return cloneArticle(a), nil
		}
		return nil, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if a, ok := r.s.articles[id]; ok {
		return cloneArticle(a), nil
	}
	return nil, nil
}

// GetForUpdate bloquea el artículo hasta el fin de la unidad. Fuera de TxRunner equivale a GetByID.
func (r *ArticleRepository) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	if r.u == nil {
		return r.GetByID(ctx, id)
	}
	if err := r.u.lock(articleKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByBarcode busca por código de barras, incluidos descatalogados.
func (r *ArticleRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Article, error) {
	r.s.mu.RLock()
	id, ok := r.s.barcodes[barcode]
	r.s.mu.RUnlock()
	if !ok && r.u != nil {
		for sid, a := range r.u.articles {
			if a.Barcode == barcode {
				id, ok = sid, true
				break
			}
		}
	}
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Update persiste los campos editables; barcode, stock y discontinued se conservan.
func (r *ArticleRepository) Update(ctx context.Context, a *entity.Article) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(articleKey(a.ID)); err != nil {
			return err
		}
		cur, ok := u.article(a.ID)
		if !ok {
			return domain.NotFound("article", a.ID)
		}
		next := *a
		next.Barcode = cur.Barcode
		next.Stock = cur.Stock
		next.Discontinued = cur.Discontinued
		next.CreatedAt = cur.CreatedAt
		u.articles[a.ID] = next
		return nil
	})
}

// UpdateStock fija el stock del artículo.
func (r *ArticleRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(articleKey(id)); err != nil {
			return err
		}
		cur, ok := u.article(id)
		if !ok {
			return domain.NotFound("article", id)
		}
		cur.Stock = stock
		u.articles[id] = cur
		return nil
	})
}

// SoftDelete marca el artículo como descatalogado.
func (r *ArticleRepository) SoftDelete(ctx context.Context, id string) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(articleKey(id)); err != nil {
			return err
		}
		cur, ok := u.article(id)
		if !ok {
			return domain.NotFound("article", id)
		}
		cur.Discontinued = true
		u.articles[id] = cur
		return nil
	})
}

// snapshot artículos visibles para esta unidad (o los confirmados en autocommit).
func (r *ArticleRepository) snapshot() []entity.Article {
	r.s.mu.RLock()
	merged := make(map[string]entity.Article, len(r.s.articles))
	for id, a := range r.s.articles {
		merged[id] = a
	}
	r.s.mu.RUnlock()
	if r.u != nil {
		for id, a := range r.u.articles {
			merged[id] = a
		}
	}
	out := make([]entity.Article, 0, len(merged))
	for _, a := range merged {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *ArticleRepository) filter(keep func(a entity.Article) bool) []*entity.Article {
	var out []*entity.Article
	for _, a := range r.snapshot() {
		if keep(a) {
			out = append(out, cloneArticle(a))
		}
	}
	return out
}

// ListActive artículos no descatalogados, por nombre.
func (r *ArticleRepository) ListActive(_ context.Context) ([]*entity.Article, error) {
	return r.filter(func(a entity.Article) bool { return !a.Discontinued }), nil
}

// ListByFamily artículos activos de la familia.
func (r *ArticleRepository) ListByFamily(_ context.Context, family string) ([]*entity.Article, error) {
	return r.filter(func(a entity.Article) bool { return !a.Discontinued && a.Family == family }), nil
}

// foldName normaliza para búsqueda: sin tildes ni diéresis y sin distinguir mayúsculas.
func foldName(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// SearchByName artículos activos cuyo nombre contiene text; con caseInsensitive ignora también los acentos.
func (r *ArticleRepository) SearchByName(_ context.Context, text string, caseInsensitive bool) ([]*entity.Article, error) {
	match := strings.Contains
	if caseInsensitive {
		needle := foldName(text)
		match = func(name, _ string) bool { return strings.Contains(foldName(name), needle) }
	}
	return r.filter(func(a entity.Article) bool { return !a.Discontinued && match(a.Name, text) }), nil
}

// Count total de artículos, incluidos descatalogados.
func (r *ArticleRepository) Count(_ context.Context) (int, error) {
	return len(r.snapshot()), nil
}
