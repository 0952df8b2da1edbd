// Package seed carga el set de datos de demostración en un almacén vacío.
// Todo pasa por los casos de uso, así que el stock queda coherente con las transacciones.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Seeder dependencias del inicializador.
type Seeder struct {
	UserRepo    repository.UserRepository
	ArticleRepo repository.ArticleRepository
	Users       *usecase.UserUseCase
	Articles    *usecase.ArticleUseCase
	Sales       *billing.SaleUseCase
	Purchases   *purchasing.PurchaseUseCase
	Log         *logger.Logger
}

type demoUser struct {
	username, password, role string
	seller                   bool
}

var demoUsers = []demoUser{
	{"admin", "admin123", entity.RoleAdmin, false},
	{"user", "user123", entity.RoleUser, true},
}

type demoArticle struct {
	name, description, barcode, family string
	sale, purchase                     string
	stock                              int
	discontinued                       bool
}

var demoArticles = []demoArticle{
	{"Smartphone XYZ", "Teléfono inteligente de última generación", "8400000001", "Electrónica", "599.99", "450.00", 20, false},
	{"Tablet ABC", "Tablet de 10 pulgadas con 128GB", "8400000002", "Electrónica", "399.99", "300.00", 15, false},
	{"Aceite de Oliva Virgen Extra", "Aceite de oliva virgen extra 1L", "8400000003", "Alimentación", "7.99", "5.00", 50, false},
	{"Leche Desnatada", "Leche desnatada 1L", "8400000004", "Alimentación", "0.99", "0.50", 100, false},
	{"Camiseta Algodón", "Camiseta 100% algodón, talla M", "8400000005", "Ropa", "19.99", "15.00", 30, false},
	{"Sartén Antiadherente", "Sartén antiadherente 24cm", "8400000006", "Hogar", "24.99", "20.00", 25, false},
	{"Teléfono Antiguo", "Modelo descatalogado", "8400000007", "Electrónica", "99.99", "75.00", 5, true},
}

// Result resumen de lo cargado.
type Result struct {
	Users     int
	Articles  int
	Sales     int
	Purchases int
}

// Run carga usuarios si no hay ninguno y artículos con una venta y una compra de ejemplo si no hay artículos.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}

	nUsers, err := s.UserRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("contar usuarios: %w", err)
	}
	if nUsers == 0 {
		for _, u := range demoUsers {
			if _, err := s.Users.Create(ctx, access.System, dto.CreateUserRequest{
				Username: u.username, Password: u.password, Role: u.role, Seller: u.seller,
			}); err != nil {
				return res, fmt.Errorf("crear usuario %s: %w", u.username, err)
			}
			res.Users++
		}
		log.Info().Msg("usuarios creados: admin/admin123 y user/user123")
	}

	nArticles, err := s.ArticleRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("contar artículos: %w", err)
	}
	if nArticles > 0 {
		return res, nil
	}

	ids := make([]string, len(demoArticles))
	for i, a := range demoArticles {
		created, err := s.Articles.Create(ctx, access.System, dto.CreateArticleRequest{
			Name:          a.name,
			Description:   a.description,
			Barcode:       a.barcode,
			Family:        a.family,
			SalePrice:     decimal.RequireFromString(a.sale),
			PurchasePrice: decimal.RequireFromString(a.purchase),
			Stock:         a.stock,
		})
		if err != nil {
			return res, fmt.Errorf("crear artículo %s: %w", a.barcode, err)
		}
		if a.discontinued {
			if err := s.Articles.SoftDelete(ctx, access.System, created.ID); err != nil {
				return res, fmt.Errorf("descatalogar %s: %w", a.barcode, err)
			}
		}
		ids[i] = created.ID
		res.Articles++
	}
	log.Info().Int("articles", res.Articles).Msg("artículos de ejemplo creados")

	seller, err := s.principal(ctx, "user")
	if err != nil {
		return res, err
	}
	if _, err := s.Sales.Create(ctx, seller, dto.CreateTransactionRequest{Lines: []dto.LineRequest{
		{ArticleID: ids[0], Quantity: 1},
		{ArticleID: ids[2], Quantity: 2},
	}}); err != nil {
		return res, fmt.Errorf("venta de ejemplo: %w", err)
	}
	res.Sales++

	admin, err := s.principal(ctx, "admin")
	if err != nil {
		return res, err
	}
	if _, err := s.Purchases.Create(ctx, admin, dto.CreateTransactionRequest{Lines: []dto.LineRequest{
		{ArticleID: ids[1], Quantity: 5},
	}}); err != nil {
		return res, fmt.Errorf("compra de ejemplo: %w", err)
	}
	res.Purchases++
	log.Info().Msg("venta y compra de ejemplo creadas")
	return res, nil
}

// principal identidad de un usuario de demo; si fue borrado se usa System.
func (s *Seeder) principal(ctx context.Context, username string) (*access.Principal, error) {
	u, err := s.UserRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario %s: %w", username, err)
	}
	if u == nil {
		return access.System, nil
	}
	return &access.Principal{UserID: u.ID, Username: u.Username, Role: u.Role, Seller: u.Seller}, nil
}
