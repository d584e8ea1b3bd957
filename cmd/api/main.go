package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/jhoicas/gudang-api/internal/application/auth"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/report"
	"github.com/jhoicas/gudang-api/internal/application/seed"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/gudang-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gudang-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gudang-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gudang-api/internal/interfaces/http"
	"github.com/jhoicas/gudang-api/pkg/config"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// storage repositorios y runner del driver elegido.
type storage struct {
	products     repository.ProductRepository
	transactions repository.StockTransactionRepository
	users        repository.UserRepository
	audit        repository.AuditLogRepository
	txRunner     ledger.TxRunner
	pinger       httpRouter.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		db := memory.NewStore()
		return &storage{
			products:     db.Products(),
			transactions: db.Transactions(),
			users:        db.Users(),
			audit:        db.AuditLogs(),
			txRunner:     memory.NewTxRunner(db),
			close:        func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		products:     postgres.NewProductRepository(pool),
		transactions: postgres.NewStockTransactionRepository(pool),
		users:        postgres.NewUserRepository(pool),
		audit:        postgres.NewAuditLogRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		pinger:       pool,
		close:        pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("driver memory: los datos se pierden al reiniciar")
	}

	var recorder ledger.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
	}

	audit := usecase.NewAuditRecorder(store.audit, log)
	stockLedger := ledger.NewStockLedger(store.txRunner, store.products, store.transactions, recorder, log, ledger.Options{
		MaxQuantity:      cfg.Ledger.MaxQuantity,
		AllowedPageSizes: cfg.Ledger.AllowedPageSizes,
		DefaultPageSize:  cfg.Ledger.DefaultPageSize,
	})
	productUC := usecase.NewProductUseCase(store.products, audit, log)
	userUC := usecase.NewUserUseCase(store.users, audit, log)
	authUC := auth.NewAuthUseCase(store.users, audit, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	}, log)

	if cfg.DB.Driver == config.DriverMemory {
		seedMemory(ctx, cfg.Seed, seed.NewSeeder(store.users, productUC, stockLedger, log), log)
	}

	// PDF: reporte de stock; números y orden alfabético en español
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name, language.Spanish)
	reportUC := report.NewReportUseCase(store.products, store.transactions, pdfGenerator, language.Spanish)
	dashboardUC := report.NewDashboardUseCase(store.products, store.transactions, language.Spanish)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.FiberErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Gudang API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no encontrado, /docs deshabilitado")
	}

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Get("/health", httpRouter.HealthHandler(store.pinger, cfg.DB.Driver))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    stockLedger,
		ProductUC: productUC,
		UserUC:    userUC,
		Audit:     audit,
		AuthUC:    authUC,
		Reports:   reportUC,
		Dashboard: dashboardUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedMemory crea el superadmin y, si se pide, el catálogo demo. Sin persistencia no hay otra forma de entrar.
func seedMemory(ctx context.Context, cfg config.SeedConfig, s *seed.Seeder, log *logger.Logger) {
	if cfg.SuperadminPassword == "" {
		log.Warn().Msg("SEED_SUPERADMIN_PASSWORD vacío: no hay usuarios para iniciar sesión")
		return
	}
	user, _, err := s.EnsureSuperadmin(ctx, cfg.SuperadminUsername, cfg.SuperadminEmail, cfg.SuperadminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear superadmin")
	}
	if !cfg.Demo {
		return
	}
	actor := dto.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
	if _, err := s.Demo(ctx, actor); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo demo")
	}
}
