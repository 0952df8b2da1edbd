package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ArticleUC    *usecase.ArticleUseCase
	UserUC       *usecase.UserUseCase
	SaleUC       *billing.SaleUseCase
	PurchaseUC   *purchasing.PurchaseUseCase
	AuthUC       *auth.AuthUseCase
	LoginLimiter *limiter.Limiter // nil desactiva el rate limit del login
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log)
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", RateLimit(deps.LoginLimiter, log), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manageArticles := RequireCapability(access.CapManageArticles)

	// Articles: lectura para cualquier usuario autenticado, escritura solo ADMIN.
	articles := protected.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleUC, log)
	articles.Get("/", articleHandler.List)
	articles.Get("/search", articleHandler.Search)
	articles.Get("/barcode/:code", articleHandler.GetByBarcode)
	articles.Get("/family/:family", articleHandler.ListByFamily)
	articles.Get("/verify/:barcode", manageArticles, articleHandler.VerifyBarcode)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Get("/:id/stock", articleHandler.CheckStock)
	articles.Post("/", manageArticles, articleHandler.Create)
	articles.Put("/:id", manageArticles, articleHandler.Update)
	articles.Patch("/:id/stock", manageArticles, articleHandler.AdjustStock)
	articles.Delete("/:id", manageArticles, articleHandler.Delete)

	// Sales: ADMIN o vendedor
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/", RequireCapability(access.CapSell), saleHandler.Create)
	sales.Delete("/:id", RequireCapability(access.CapSell), saleHandler.Cancel)

	// Purchases: solo ADMIN
	purchases := protected.Group("/purchases", RequireCapability(access.CapManagePurchases))
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, log)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Delete("/:id", purchaseHandler.Cancel)

	// Users: solo ADMIN
	users := protected.Group("/users", RequireCapability(access.CapManageUsers))
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Get("/username/:username", userHandler.GetByUsername)
	users.Get("/role/:role", userHandler.ListByRole)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}

// NewApp construye la app Fiber con el ErrorHandler de dominio y el logging de peticiones.
// Recover, CORS y Swagger los añade el binario.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(RequestLogger(log))
	return app
}
