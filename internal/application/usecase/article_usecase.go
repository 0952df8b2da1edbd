package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ArticleUseCase catálogo de artículos. El stock cambia por ventas/compras, AdjustStock
// o edición explícita del catálogo; nunca queda negativo.
type ArticleUseCase struct {
	repo     repository.ArticleRepository
	txRunner inventory.TxRunner
	engine   *inventory.StockEngine
	log      *logger.Logger
}

// NewArticleUseCase construye el caso de uso.
func NewArticleUseCase(
	repo repository.ArticleRepository,
	txRunner inventory.TxRunner,
	engine *inventory.StockEngine,
	log *logger.Logger,
) *ArticleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ArticleUseCase{repo: repo, txRunner: txRunner, engine: engine, log: log}
}

// Create crea un nuevo artículo con el stock inicial indicado.
func (uc *ArticleUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	if err := access.Authorize(p, access.CapManageArticles); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	switch {
	case in.Name == "":
		return nil, domain.Invalid("name", "es obligatorio")
	case in.Barcode == "":
		return nil, domain.Invalid("barcode", "es obligatorio")
	case strings.TrimSpace(in.Family) == "":
		return nil, domain.Invalid("family", "es obligatorio")
	case in.Stock < 0:
		return nil, domain.Invalid("stock", "no puede ser negativo")
	}
	if err := validatePrices(in.SalePrice, in.PurchasePrice); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByBarcode(ctx, in.Barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DuplicateBarcodeError{Barcode: in.Barcode}
	}
	now := time.Now().UTC()
	article := &entity.Article{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		Barcode:       in.Barcode,
		Family:        strings.TrimSpace(in.Family),
		PhotoURL:      in.PhotoURL,
		SalePrice:     in.SalePrice,
		PurchasePrice: in.PurchasePrice,
		Stock:         in.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// El índice único resuelve la carrera entre dos altas con el mismo barcode
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	uc.log.Info().Str("article_id", article.ID).Str("barcode", article.Barcode).Msg("artículo creado")
	return toArticleResponse(article), nil
}

// priceScale decimales admitidos en precios (columnas NUMERIC(14,2)).
const priceScale = 2

func validatePrices(sale, purchase decimal.Decimal) error {
	for _, p := range []struct {
		field string
		value decimal.Decimal
	}{{"sale_price", sale}, {"purchase_price", purchase}} {
		if !p.value.IsPositive() {
			return domain.Invalid(p.field, "debe ser mayor que 0")
		}
		// NUMERIC(14,2): más decimales se redondearían al guardar
		if !p.value.Equal(p.value.Round(priceScale)) {
			return domain.Invalid(p.field, "admite como máximo 2 decimales")
		}
	}
	return nil
}

// Update edita un artículo bajo bloqueo de su fila. El barcode es inmutable; si llega Stock se fija tal cual.
func (uc *ArticleUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	if err := access.Authorize(p, access.CapManageArticles); err != nil {
		return nil, err
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.Invalid("stock", "no puede ser negativo")
	}
	var updated *entity.Article
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, _ repository.TransactionRepository) error {
		article, err := articles.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if article == nil {
			return domain.NotFound("article", id)
		}
		if in.Barcode != nil && *in.Barcode != article.Barcode {
			return domain.Invalid("barcode", "no se puede modificar")
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.Invalid("name", "es obligatorio")
			}
			article.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			article.Description = *in.Description
		}
		if in.Family != nil {
			article.Family = strings.TrimSpace(*in.Family)
		}
		if in.PhotoURL != nil {
			article.PhotoURL = *in.PhotoURL
		}
		if in.SalePrice != nil {
			article.SalePrice = *in.SalePrice
		}
		if in.PurchasePrice != nil {
			article.PurchasePrice = *in.PurchasePrice
		}
		if err := validatePrices(article.SalePrice, article.PurchasePrice); err != nil {
			return err
		}
		article.UpdatedAt = time.Now().UTC()
		if err := articles.Update(ctx, article); err != nil {
			return err
		}
		if in.Stock != nil && *in.Stock != article.Stock {
			if err := articles.UpdateStock(ctx, id, *in.Stock); err != nil {
				return err
			}
			article.Stock = *in.Stock
		}
		updated = article
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toArticleResponse(updated), nil
}

// SoftDelete marca el artículo como descatalogado; el stock no cambia. Repetirlo no es error.
func (uc *ArticleUseCase) SoftDelete(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, access.CapManageArticles); err != nil {
		return err
	}
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return domain.NotFound("article", id)
	}
	if article.Discontinued {
		return nil
	}
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("article_id", id).Msg("artículo descatalogado")
	return nil
}

// ListActive artículos no descatalogados.
func (uc *ArticleUseCase) ListActive(ctx context.Context, p *access.Principal) (*dto.ArticleListResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toArticleList(list), nil
}

// GetByID obtiene un artículo (incluidos descatalogados).
func (uc *ArticleUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.ArticleResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.NotFound("article", id)
	}
	return toArticleResponse(article), nil
}

// FindByBarcode busca por código de barras (incluidos descatalogados).
func (uc *ArticleUseCase) FindByBarcode(ctx context.Context, p *access.Principal, barcode string) (*dto.ArticleResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	article, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.NotFound("article", barcode)
	}
	return toArticleResponse(article), nil
}

// FindByFamily artículos activos de una familia.
func (uc *ArticleUseCase) FindByFamily(ctx context.Context, p *access.Principal, family string) (*dto.ArticleListResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByFamily(ctx, family)
	if err != nil {
		return nil, err
	}
	return toArticleList(list), nil
}

// SearchByName artículos activos cuyo nombre contiene text.
func (uc *ArticleUseCase) SearchByName(ctx context.Context, p *access.Principal, text string, caseInsensitive bool) (*dto.ArticleListResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Invalid("q", "es obligatorio")
	}
	list, err := uc.repo.SearchByName(ctx, text, caseInsensitive)
	if err != nil {
		return nil, err
	}
	return toArticleList(list), nil
}

// AdjustStock suma delta al stock de forma atómica a través del motor de movimientos.
func (uc *ArticleUseCase) AdjustStock(ctx context.Context, p *access.Principal, id string, delta int) (*dto.ArticleResponse, error) {
	if err := access.Authorize(p, access.CapManageArticles); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, domain.Invalid("delta", "no puede ser 0")
	}
	var adjusted *entity.Article
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, _ repository.TransactionRepository) error {
		locked, err := uc.engine.Apply(ctx, articles, []domaininv.Delta{{ArticleID: id, Quantity: delta}})
		if err != nil {
			return err
		}
		adjusted = locked[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("article_id", id).Int("delta", delta).Int("stock", adjusted.Stock).Msg("stock ajustado")
	return toArticleResponse(adjusted), nil
}

// HasSufficientStock indica si el artículo tiene al menos quantity unidades.
func (uc *ArticleUseCase) HasSufficientStock(ctx context.Context, p *access.Principal, id string, quantity int) (*dto.StockCheckResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity", "debe ser >= 1")
	}
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.NotFound("article", id)
	}
	return &dto.StockCheckResponse{ArticleID: id, Quantity: quantity, Sufficient: article.HasStock(quantity)}, nil
}

// BarcodeExists verifica si ya hay un artículo con ese código (ADMIN).
func (uc *ArticleUseCase) BarcodeExists(ctx context.Context, p *access.Principal, barcode string) (*dto.BarcodeExistsResponse, error) {
	if err := access.Authorize(p, access.CapManageArticles); err != nil {
		return nil, err
	}
	article, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return &dto.BarcodeExistsResponse{Barcode: barcode, Exists: article != nil}, nil
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	if a == nil {
		return nil
	}
	return &dto.ArticleResponse{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		Barcode:       a.Barcode,
		Family:        a.Family,
		PhotoURL:      a.PhotoURL,
		SalePrice:     a.SalePrice,
		PurchasePrice: a.PurchasePrice,
		Stock:         a.Stock,
		Discontinued:  a.Discontinued,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toArticleList(list []*entity.Article) *dto.ArticleListResponse {
	items := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArticleResponse(a))
	}
	return &dto.ArticleListResponse{Items: items}
}
