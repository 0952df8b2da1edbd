package billing

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// SaleUseCase registra y anula ventas: descuenta stock y guarda cabecera y líneas en una sola transacción.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.StockEngine
	txRepo   repository.TransactionRepository
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.StockEngine,
	txRepo repository.TransactionRepository,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{txRunner: txRunner, engine: engine, txRepo: txRepo, log: log}
}

// Create valida las líneas (sin artículos repetidos), descuenta el stock y persiste la venta
// con precio de venta vigente, total y fecha del servidor.
func (uc *SaleUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := access.Authorize(p, access.CapSell); err != nil {
		return nil, err
	}
	lines := inventory.ProposedFromRequest(in.Lines)
	if err := inventory.ValidateLines(lines); err != nil {
		return nil, err
	}
	if dups := inventory.DuplicateArticleIDs(lines); len(dups) > 0 {
		return nil, &domain.DuplicateLineItemError{ArticleIDs: dups}
	}

	var sale *entity.Transaction
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, transactions repository.TransactionRepository) error {
		var err error
		sale, err = uc.engine.Record(ctx, articles, transactions, entity.KindSale, p.UserID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("user_id", sale.UserID).
		Int("lines", len(sale.Lines)).
		Str("total", sale.Total.String()).
		Msg("venta registrada")
	return dto.ToTransactionResponse(sale), nil
}

// Cancel anula la venta: devuelve al stock las cantidades guardadas y elimina venta y líneas.
func (uc *SaleUseCase) Cancel(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, access.CapSell); err != nil {
		return err
	}
	var sale *entity.Transaction
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, transactions repository.TransactionRepository) error {
		var err error
		sale, err = uc.engine.Reverse(ctx, articles, transactions, entity.KindSale, id)
		return err
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("by", p.Username).Msg("venta anulada")
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.TransactionResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	sale, err := uc.txRepo.GetByID(ctx, entity.KindSale, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("sale", id)
	}
	return dto.ToTransactionResponse(sale), nil
}

// List ventas por rango de fechas y/o usuario.
func (uc *SaleUseCase) List(ctx context.Context, p *access.Principal, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	if err := access.Authorize(p, access.CapRead); err != nil {
		return nil, err
	}
	return inventory.ListTransactions(ctx, uc.txRepo, entity.KindSale, q)
}
