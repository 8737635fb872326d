package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	operatordomain "github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	operatorports "github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
	productworkflows "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/workflows"
	productdomain "github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

const importServiceName = "inventory-import"

// ImportSummary counts the records written by one import.
type ImportSummary struct {
	Stocks    int
	Operators int
	Products  int
}

// Importer loads a manifest through the same services the worker uses.
type Importer struct {
	stocks    productports.StockRepository
	operators operatorports.Service
	products  productports.WorkflowOrchestrator
	logger    *slog.Logger
}

func NewImporter(stocks productports.StockRepository, operators operatorports.Service, products productports.WorkflowOrchestrator, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{stocks: stocks, operators: operators, products: products, logger: logger}
}

// Import writes stocks first, then operators, then products. It stops at the first failure;
// records written before it stay in place.
func (i *Importer) Import(ctx context.Context, manifest *Manifest) (ImportSummary, error) {
	var summary ImportSummary
	for idx, entry := range manifest.Stocks {
		if _, err := i.stocks.Save(ctx, productdomain.NewStock(entry.ID, entry.Name)); err != nil {
			return summary, fmt.Errorf("stocks[%d]: %w", idx, err)
		}
		summary.Stocks++
	}
	for idx, entry := range manifest.Operators {
		operator := operatordomain.NewOperator(entry.ID, entry.FirstName, entry.LastName, entry.Password)
		operator.AssignInvoices(entry.InvoiceIDs...)
		if _, err := i.operators.AddOperator(ctx, operator); err != nil {
			return summary, fmt.Errorf("operators[%d]: %w", idx, err)
		}
		summary.Operators++
	}
	for idx, entry := range manifest.Products {
		category, err := productdomain.ParseCategory(entry.Category)
		if err != nil {
			return summary, fmt.Errorf("products[%d]: %w", idx, err)
		}
		product, err := i.products.CreateProduct(ctx, productports.CreateProductCommand{
			Product:        *productdomain.NewProduct(0, entry.Title, entry.Price, entry.Quantity, category),
			StockID:        entry.StockID,
			IdempotencyKey: entry.IdempotencyKey,
		})
		if err != nil {
			return summary, fmt.Errorf("products[%d] %q: %w", idx, entry.Title, err)
		}
		i.logger.Info("product imported", slog.Int64("product.id", product.ID), slog.Int64("stock.id", product.StockID))
		summary.Products++
	}
	return summary, nil
}

// RunImport loads the manifest at path. With PostgreSQL storage, products go through Temporal
// when it is reachable; otherwise they are created inline.
func RunImport(ctx context.Context, path string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: importServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	manifest, err := ParseManifest(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	deps, cleanup := BuildDependencies(ctx, cfg.PostgresDSN, instruments)
	defer cleanup()

	var orchestrator productports.WorkflowOrchestrator = productworkflows.NewInlineProductWorkflows(deps.Creator)
	if deps.DB == nil {
		logger.Info("in-memory storage is not shared with the worker, creating products inline")
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating products inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = productworkflows.NewTemporalProductWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	ctx, span := instruments.Tracer(importServiceName).Start(ctx, "Importer.Import")
	defer span.End()
	summary, err := NewImporter(deps.Stocks, deps.Operators, orchestrator, logger).Import(ctx, manifest)
	logger.Info("import finished",
		slog.String("manifest", path),
		slog.Int("stocks", summary.Stocks),
		slog.Int("operators", summary.Operators),
		slog.Int("products", summary.Products))
	return err
}
