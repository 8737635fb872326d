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

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

const tracerName = "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/observability/service"

// Service decorates a products application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
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

// AddProduct attaches the stock and stores the product with instrumentation.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product, stockID int64) (*domain.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductService.AddProduct", attribute.Int64("stock.id", stockID))
	defer span.End()

	s.logInfo(ctx, "adding product", slog.Int64("stock.id", stockID), slog.String("product.title", titleOf(product)))
	result, err := s.inner.AddProduct(ctx, product, stockID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product", slog.Int64("stock.id", stockID), slog.String("product.title", titleOf(product)))
	}
	span.SetAttributes(attribute.Int64("product.id", result.ID))
	s.metrics.recordAdded(ctx, result.Category)
	s.logInfo(ctx, "product added", productAttrs(result)...)
	return result, nil
}

func (s *Service) RetrieveProduct(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductService.RetrieveProduct", attribute.Int64("product.id", id))
	defer span.End()

	s.logInfo(ctx, "retrieving product", slog.Int64("product.id", id))
	result, err := s.inner.RetrieveProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product retrieved", productAttrs(result)...)
	return result, nil
}

func (s *Service) RetrieveAllProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductService.RetrieveAllProducts")
	defer span.End()

	s.logInfo(ctx, "retrieving all products")
	result, err := s.inner.RetrieveAllProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve products")
	}
	s.collectionResult(ctx, span, "RetrieveAllProducts", result)
	return result, nil
}

func (s *Service) RetrieveProductsByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductService.RetrieveProductsByCategory", attribute.String("product.category", string(category)))
	defer span.End()

	s.logInfo(ctx, "retrieving products by category", slog.String("product.category", string(category)))
	result, err := s.inner.RetrieveProductsByCategory(ctx, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve products by category", slog.String("product.category", string(category)))
	}
	s.collectionResult(ctx, span, "RetrieveProductsByCategory", result)
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "ProductService.DeleteProduct", attribute.Int64("product.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) RetrieveProductsByStock(ctx context.Context, stockID int64) ([]*domain.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductService.RetrieveProductsByStock", attribute.Int64("stock.id", stockID))
	defer span.End()

	s.logInfo(ctx, "retrieving products by stock", slog.Int64("stock.id", stockID))
	result, err := s.inner.RetrieveProductsByStock(ctx, stockID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve products by stock", slog.Int64("stock.id", stockID))
	}
	s.collectionResult(ctx, span, "RetrieveProductsByStock", result)
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// collectionResult logs the size at info and every record at debug.
func (s *Service) collectionResult(ctx context.Context, span trace.Span, operation string, products []*domain.Product) {
	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.metrics.recordResults(ctx, operation, len(products))
	s.logInfo(ctx, "products retrieved", slog.String("operation", operation), slog.Int("count", len(products)))
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, product := range products {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "product", productAttrs(product)...)
	}
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

func productAttrs(p *domain.Product) []slog.Attr {
	if p == nil {
		return nil
	}
	attrs := []slog.Attr{
		slog.Int64("product.id", p.ID),
		slog.String("product.title", p.Title),
		slog.String("product.category", string(p.Category)),
		slog.Int64("stock.id", p.StockID),
	}
	if p.Stock != nil {
		attrs = append(attrs, slog.String("stock.name", p.Stock.Name))
	}
	return attrs
}

func titleOf(p *domain.Product) string {
	if p == nil {
		return ""
	}
	return p.Title
}

type serviceMetrics struct {
	added   metric.Int64Counter
	deleted metric.Int64Counter
	results metric.Int64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("products.service.added", metric.WithDescription("Number of products added"))
	deleted, _ := m.Int64Counter("products.service.deleted", metric.WithDescription("Number of products deleted"))
	results, _ := m.Int64Histogram("products.service.results", metric.WithDescription("Number of products returned by collection queries"))
	return serviceMetrics{added: added, deleted: deleted, results: results}
}

func (m serviceMetrics) recordAdded(ctx context.Context, category domain.Category) {
	if m.added != nil {
		m.added.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", string(category))))
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
