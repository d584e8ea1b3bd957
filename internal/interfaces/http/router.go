package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/auth"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/application/report"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *ledger.StockLedger
	ProductUC *usecase.ProductUseCase
	UserUC    *usecase.UserUseCase
	Audit     *usecase.AuditRecorder
	AuthUC    *auth.AuthUseCase
	Reports   *report.ReportUseCase
	Dashboard *report.DashboardUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Personal de bodega: admin y superadmin
	staff := api.Group("/v1", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))

	productHandler := NewProductHandler(deps.ProductUC, log)
	products := staff.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/archive", productHandler.Archive)

	stockHandler := NewStockHandler(deps.Ledger, log)
	stock := staff.Group("/stock")
	stock.Post("/in", stockHandler.RecordIn)
	stock.Post("/out", stockHandler.RecordOut)
	stock.Post("/adjustment", stockHandler.RecordAdjustment)
	stock.Get("/current/:id", stockHandler.GetCurrent)
	stock.Get("/history/:id", stockHandler.GetHistory)
	stock.Get("/transactions", stockHandler.ListTransactions)

	reportHandler := NewReportHandler(deps.Reports, deps.Dashboard, log)
	staff.Get("/reports/stock", reportHandler.StockReport)
	staff.Get("/reports/stock.pdf", reportHandler.StockReportPDF)
	staff.Get("/reports/movements", reportHandler.MovementReport)
	staff.Get("/dashboard/summary", reportHandler.DashboardSummary)

	// Solo superadmin
	superadmin := RequireRole(entity.RoleSuperAdmin)

	auditHandler := NewAuditHandler(deps.Audit, log)
	staff.Get("/audit-logs", superadmin, auditHandler.List)

	userHandler := NewUserHandler(deps.UserUC, log)
	users := staff.Group("/users", superadmin)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)
}
