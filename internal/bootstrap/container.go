// Package bootstrap arma el grafo de dependencias (almacén, motor y casos de uso)
// compartido por la API y la CLI de operaciones.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/seed"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Repos puertos de persistencia de un adaptador concreto.
type Repos struct {
	Articles     repository.ArticleRepository
	Transactions repository.TransactionRepository
	Users        repository.UserRepository
	TxRunner     inventory.TxRunner
}

// Container casos de uso listos para los handlers o la CLI.
type Container struct {
	Repos      Repos
	Hasher     auth.PasswordHasher
	Engine     *inventory.StockEngine
	ArticleUC  *usecase.ArticleUseCase
	UserUC     *usecase.UserUseCase
	SaleUC     *billing.SaleUseCase
	PurchaseUC *purchasing.PurchaseUseCase
	AuthUC     *auth.AuthUseCase

	log     *logger.Logger
	closers []func()
}

// Open elige el adaptador según cfg.Store.Driver, aplica migraciones si corresponde y arma los casos de uso.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore(memory.Options{
			LockTimeout: cfg.Ledger.LockTimeout,
			MaxRetries:  cfg.Ledger.MaxRetries,
			Logger:      log.Named("memory"),
		})
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return New(MemoryRepos(store), cfg.JWT, log), nil

	case config.StoreDriverPostgres, "":
		if cfg.Store.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c := New(Repos{
			Articles:     postgres.NewArticleRepository(pool),
			Transactions: postgres.NewTransactionRepository(pool),
			Users:        postgres.NewUserRepository(pool),
			TxRunner: postgres.NewTxRunner(pool, postgres.TxOptions{
				MaxRetries:  cfg.Ledger.MaxRetries,
				LockTimeout: cfg.Ledger.LockTimeout,
				Logger:      log.Named("tx"),
			}),
		}, cfg.JWT, log)
		c.closers = append(c.closers, pool.Close)
		return c, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}

// MemoryRepos puertos del almacén en memoria.
func MemoryRepos(store *memory.Store) Repos {
	return Repos{
		Articles:     store.Articles(),
		Transactions: store.Transactions(),
		Users:        store.Users(),
		TxRunner:     store.TxRunner(),
	}
}

// New arma los casos de uso sobre repos ya construidos.
func New(repos Repos, jwtCfg config.JWTConfig, log *logger.Logger) *Container {
	if log == nil {
		log = logger.Nop()
	}
	hasher := auth.BcryptHasher{}
	engine := inventory.NewStockEngine(log.Named("engine"))
	return &Container{
		Repos:      repos,
		Hasher:     hasher,
		Engine:     engine,
		ArticleUC:  usecase.NewArticleUseCase(repos.Articles, repos.TxRunner, engine, log.Named("articles")),
		UserUC:     usecase.NewUserUseCase(repos.Users, hasher),
		SaleUC:     billing.NewSaleUseCase(repos.TxRunner, engine, repos.Transactions, log.Named("sales")),
		PurchaseUC: purchasing.NewPurchaseUseCase(repos.TxRunner, engine, repos.Transactions, log.Named("purchases")),
		AuthUC: auth.NewAuthUseCase(repos.Users, hasher, auth.JWTConfig{
			Secret:     jwtCfg.Secret,
			ExpMinutes: jwtCfg.Expiration,
			Issuer:     jwtCfg.Issuer,
		}),
		log: log,
	}
}

// Seeder inicializador del set de demostración sobre este contenedor.
func (c *Container) Seeder() *seed.Seeder {
	return &seed.Seeder{
		UserRepo:    c.Repos.Users,
		ArticleRepo: c.Repos.Articles,
		Users:       c.UserUC,
		Articles:    c.ArticleUC,
		Sales:       c.SaleUC,
		Purchases:   c.PurchaseUC,
		Log:         c.log.Named("seed"),
	}
}

// Close libera conexiones (no-op en memoria).
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
