package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
)

const tracerName = "github.com/Apurer/go-inventory-service/internal/domains/operators/adapters/observability/service"

// Service decorates the operator service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core operator service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) RetrieveAllOperators(ctx context.Context) ([]*domain.Operator, error) {
	ctx, span := s.tracer.Start(ctx, "OperatorService.RetrieveAllOperators")
	defer span.End()

	s.logInfo(ctx, "retrieving all operators")
	result, err := s.inner.RetrieveAllOperators(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve operators")
	}
	span.SetAttributes(attribute.Int("operator.count", len(result)))
	s.metrics.recordResults(ctx, "RetrieveAllOperators", len(result))
	s.logInfo(ctx, "operators retrieved", slog.Int("count", len(result)))
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		for _, op := range result {
			s.logger.LogAttrs(ctx, slog.LevelDebug, "operator", operatorAttrs(op)...)
		}
	}
	return result, nil
}

func (s *Service) AddOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	ctx, span := s.tracer.Start(ctx, "OperatorService.AddOperator", trace.WithAttributes(attribute.Int64("operator.id", idOf(operator))))
	defer span.End()

	s.logInfo(ctx, "adding operator", slog.Int64("operator.id", idOf(operator)))
	result, err := s.inner.AddOperator(ctx, operator)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add operator", slog.Int64("operator.id", idOf(operator)))
	}
	span.SetAttributes(attribute.Int64("operator.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "operator added", operatorAttrs(result)...)
	return result, nil
}

// DeleteOperator looks the operator up first so the removal can be logged by name.
// The lookup is best effort; its failure never blocks the delete.
func (s *Service) DeleteOperator(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OperatorService.DeleteOperator", trace.WithAttributes(attribute.Int64("operator.id", id)))
	defer span.End()

	if existing, err := s.inner.RetrieveOperator(ctx, id); err == nil && existing != nil {
		s.logInfo(ctx, "deleting operator", slog.Int64("operator.id", id), slog.String("operator.name", existing.FullName()))
	} else {
		s.logInfo(ctx, "deleting operator", slog.Int64("operator.id", id))
	}
	if err := s.inner.DeleteOperator(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete operator", slog.Int64("operator.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "operator deleted", slog.Int64("operator.id", id))
	return nil
}

func (s *Service) UpdateOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	ctx, span := s.tracer.Start(ctx, "OperatorService.UpdateOperator", trace.WithAttributes(attribute.Int64("operator.id", idOf(operator))))
	defer span.End()

	s.logInfo(ctx, "updating operator", slog.Int64("operator.id", idOf(operator)))
	result, err := s.inner.UpdateOperator(ctx, operator)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update operator", slog.Int64("operator.id", idOf(operator)))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "operator updated", operatorAttrs(result)...)
	return result, nil
}

func (s *Service) RetrieveOperator(ctx context.Context, id int64) (*domain.Operator, error) {
	ctx, span := s.tracer.Start(ctx, "OperatorService.RetrieveOperator", trace.WithAttributes(attribute.Int64("operator.id", id)))
	defer span.End()

	s.logInfo(ctx, "retrieving operator", slog.Int64("operator.id", id))
	result, err := s.inner.RetrieveOperator(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve operator", slog.Int64("operator.id", id))
	}
	s.logInfo(ctx, "operator retrieved", operatorAttrs(result)...)
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// operatorAttrs never includes the password.
func operatorAttrs(op *domain.Operator) []slog.Attr {
	if op == nil {
		return nil
	}
	return []slog.Attr{
		slog.Int64("operator.id", op.ID),
		slog.String("operator.name", op.FullName()),
		slog.Int("operator.invoices", len(op.InvoiceIDs)),
	}
}

func idOf(op *domain.Operator) int64 {
	if op == nil {
		return 0
	}
	return op.ID
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
	results metric.Int64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("operators.service.created", metric.WithDescription("Number of operators created"))
	updated, _ := m.Int64Counter("operators.service.updated", metric.WithDescription("Number of operators updated"))
	deleted, _ := m.Int64Counter("operators.service.deleted", metric.WithDescription("Number of operators deleted"))
	results, _ := m.Int64Histogram("operators.service.results", metric.WithDescription("Number of operators returned by collection queries"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted, results: results}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.updated != nil {
		m.updated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordResults(ctx context.Context, operation string, n int) {
	if m.results != nil {
		m.results.Record(ctx, int64(n), metric.WithAttributes(attribute.String("operation", operation)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ports.Service = (*Service)(nil)
