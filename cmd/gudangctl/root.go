package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/application/seed"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gudang-api/pkg/config"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "gudangctl",
	Short:         "Herramientas de operación de gudang-api",
	Long:          `Aplica migraciones y carga datos iniciales en la base PostgreSQL configurada (DATABASE_URL o DB_*).`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// env contexto compartido por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

// openEnv carga la configuración y abre el pool. El driver memory no aplica aquí.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("gudangctl requiere DB_DRIVER=postgres (actual %q)", cfg.DB.Driver)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) close() { e.pool.Close() }

// seeder arma el sembrador con los repositorios PostgreSQL.
func (e *env) seeder() *seed.Seeder {
	products := postgres.NewProductRepository(e.pool)
	audit := usecase.NewAuditRecorder(postgres.NewAuditLogRepository(e.pool), e.log)
	stockLedger := ledger.NewStockLedger(
		postgres.NewTxRunner(e.pool),
		products,
		postgres.NewStockTransactionRepository(e.pool),
		nil,
		e.log,
		ledger.Options{
			MaxQuantity:      e.cfg.Ledger.MaxQuantity,
			AllowedPageSizes: e.cfg.Ledger.AllowedPageSizes,
			DefaultPageSize:  e.cfg.Ledger.DefaultPageSize,
		},
	)
	return seed.NewSeeder(postgres.NewUserRepository(e.pool), usecase.NewProductUseCase(products, audit, e.log), stockLedger, e.log)
}
