package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"golang.org/x/sync/errgroup"

	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
	productworkflows "github.com/Apurer/go-inventory-service/internal/durable/temporal/workflows/products"
	"github.com/Apurer/go-inventory-service/internal/platform/health"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

const workerServiceName = "inventory-worker"

// RunWorker runs the Temporal worker for product creation together with the probe
// server until ctx is cancelled or either of them fails.
func RunWorker(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: workerServiceName,
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

	deps, cleanup := BuildDependencies(ctx, cfg.PostgresDSN, instruments)
	defer cleanup()

	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, productworkflows.ProductCreationTaskQueue, worker.Options{})
	registerProductWorkflows(w, productactivities.NewActivities(deps.Creator))

	checks := deps.Checks()
	checks["temporal"] = func(ctx context.Context) error {
		_, err := temporalClient.CheckHealth(ctx, &client.CheckHealthRequest{})
		return err
	}
	probes := health.NewServer(cfg.HealthAddr(), workerServiceName, checks)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := w.Start(); err != nil {
			return fmt.Errorf("temporal worker failed to start: %w", err)
		}
		logger.Info("worker listening",
			slog.String("taskQueue", productworkflows.ProductCreationTaskQueue),
			slog.String("namespace", cfg.TemporalNamespace))
		<-gCtx.Done()
		logger.Info("stopping Temporal worker")
		w.Stop()
		return nil
	})
	g.Go(func() error {
		logger.Info("probe server listening", slog.String("addr", probes.Addr))
		if err := probes.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("probe server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return probes.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("worker stopped")
	return nil
}

// workflowRegistry is the registration subset of worker.Worker.
type workflowRegistry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

func registerProductWorkflows(r workflowRegistry, activities *productactivities.Activities) {
	r.RegisterWorkflowWithOptions(productworkflows.ProductCreationWorkflow, workflow.RegisterOptions{Name: productworkflows.ProductCreationWorkflowName})
	r.RegisterActivityWithOptions(activities.AddProduct, activity.RegisterOptions{Name: productactivities.AddProductActivityName})
}
