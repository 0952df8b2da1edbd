package purchasing

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

// PurchaseUseCase registra y anula compras (solo ADMIN). Las líneas repetidas se netean.
type PurchaseUseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.StockEngine
	txRepo   repository.TransactionRepository
	log      *logger.Logger
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.StockEngine,
	txRepo repository.TransactionRepository,
	log *logger.Logger,
) *PurchaseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseUseCase{txRunner: txRunner, engine: engine, txRepo: txRepo, log: log}
}

// Create suma stock por cada línea y persiste la compra al precio de compra vigente.
// Un artículo descatalogado rechaza la compra completa.
func (uc *PurchaseUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := access.Authorize(p, access.CapManagePurchases); err != nil {
		return nil, err
	}
	lines := inventory.ProposedFromRequest(in.Lines)
	if err := inventory.ValidateLines(lines); err != nil {
		return nil, err
	}

	var purchase *entity.Transaction
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, transactions repository.TransactionRepository) error {
		var err error
		purchase, err = uc.engine.Record(ctx, articles, transactions, entity.KindPurchase, p.UserID, lines,
			inventory.RejectDiscontinued)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("user_id", purchase.UserID).
		Int("lines", len(purchase.Lines)).
		Str("total", purchase.Total.String()).
		Msg("compra registrada")
	return dto.ToTransactionResponse(purchase), nil
}

// Cancel anula la compra: resta las cantidades guardadas y elimina compra y líneas.
// Si ventas posteriores consumieron ese stock la anulación se rechaza entera.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, access.CapManagePurchases); err != nil {
		return err
	}
	var purchase *entity.Transaction
	err := uc.txRunner.Run(ctx, func(articles repository.ArticleRepository, transactions repository.TransactionRepository) error {
		var err error
		purchase, err = uc.engine.Reverse(ctx, articles, transactions, entity.KindPurchase, id)
		return err
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("purchase_id", purchase.ID).Str("by", p.Username).Msg("compra anulada")
	return nil
}

// GetByID obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.TransactionResponse, error) {
	if err := access.Authorize(p, access.CapManagePurchases); err != nil {
		return nil, err
	}
	purchase, err := uc.txRepo.GetByID(ctx, entity.KindPurchase, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.NotFound("purchase", id)
	}
	return dto.ToTransactionResponse(purchase), nil
}

// List compras por rango de fechas y/o usuario.
func (uc *PurchaseUseCase) List(ctx context.Context, p *access.Principal, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	if err := access.Authorize(p, access.CapManagePurchases); err != nil {
		return nil, err
	}
	return inventory.ListTransactions(ctx, uc.txRepo, entity.KindPurchase, q)
}
