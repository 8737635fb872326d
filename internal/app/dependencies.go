package app

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	operatormemory "github.com/Apurer/go-inventory-service/internal/domains/operators/adapters/memory"
	operatorobs "github.com/Apurer/go-inventory-service/internal/domains/operators/adapters/observability"
	operatorpostgres "github.com/Apurer/go-inventory-service/internal/domains/operators/adapters/persistence/postgres"
	operatorapp "github.com/Apurer/go-inventory-service/internal/domains/operators/application"
	operatorports "github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
	productmemory "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/memory"
	productobs "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/observability"
	productpostgres "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/persistence/postgres"
	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	"github.com/Apurer/go-inventory-service/internal/platform/health"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
)

// Dependencies holds the instrumented services shared by the worker and the importer.
type Dependencies struct {
	Operators operatorports.Service
	Products  productports.Service
	Stocks    productports.StockRepository
	Creator   *productapp.Creator
	// DB is nil when the process runs on in-memory repositories.
	DB *gorm.DB

	idempotency productports.IdempotencyStore
	transactor  productports.Transactor
}

// Checks returns the readiness checks for the configured storage.
func (d *Dependencies) Checks() map[string]health.Check {
	checks := map[string]health.Check{}
	if d.DB != nil {
		db := d.DB
		checks["postgres"] = func(ctx context.Context) error { return platformpostgres.Ping(ctx, db) }
	}
	return checks
}

// BuildDependencies wires repositories, core services and their decorators. PostgreSQL is used
// when dsn is set and reachable; otherwise the in-memory adapters are used.
func BuildDependencies(ctx context.Context, dsn string, instruments *platformobservability.Instruments) (*Dependencies, func()) {
	logger := effectiveLogger(instruments)
	deps, cleanup := buildStorage(ctx, dsn, logger)

	deps.Operators = operatorobs.New(
		deps.Operators,
		operatorobs.WithLogger(logger),
		operatorobs.WithTracer(instruments.Tracer("internal.operators.application")),
		operatorobs.WithMeter(instruments.Meter("internal.operators.application")),
	)
	deps.Products = productobs.New(
		deps.Products,
		productobs.WithLogger(logger),
		productobs.WithTracer(instruments.Tracer("internal.products.application")),
		productobs.WithMeter(instruments.Meter("internal.products.application")),
	)
	deps.Creator = productapp.NewCreator(deps.Products, deps.idempotency, deps.transactor)
	return deps, cleanup
}

func buildStorage(ctx context.Context, dsn string, logger *slog.Logger) (*Dependencies, func()) {
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryDependencies(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryDependencies(), func() {}
	}
	logger.Info("repositories configured with postgres")

	stocks := productpostgres.NewStockRepository(db)
	tx := platformpostgres.NewTransactor(db)
	return &Dependencies{
		Operators: operatorapp.NewService(operatorpostgres.NewRepository(db)),
		Products: productapp.NewService(
			productpostgres.NewRepository(db),
			stocks,
			productapp.WithTransactor(tx),
		),
		Stocks:      stocks,
		DB:          db,
		idempotency: productpostgres.NewIdempotencyStore(db),
		transactor:  tx,
	}, func() { _ = platformpostgres.Close(db) }
}

func memoryDependencies() *Dependencies {
	stocks := productmemory.NewStockRepository()
	tx := productmemory.NewTransactor()
	return &Dependencies{
		Operators: operatorapp.NewService(operatormemory.NewRepository()),
		Products: productapp.NewService(
			productmemory.NewRepository(stocks),
			stocks,
			productapp.WithTransactor(tx),
		),
		Stocks:      stocks,
		idempotency: productmemory.NewIdempotencyStore(),
		transactor:  tx,
	}
}
