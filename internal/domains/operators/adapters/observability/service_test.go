package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/adapters/memory"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/application"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
)

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, inner ports.Service) harness {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := New(inner,
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
		WithLogger(logger),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h harness) spanNames() []string {
	var names []string
	for _, s := range h.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

type failingService struct {
	ports.Service
	err error
}

func (f failingService) RetrieveOperator(context.Context, int64) (*domain.Operator, error) {
	return nil, f.err
}

func (f failingService) DeleteOperator(context.Context, int64) error {
	return f.err
}

func TestService_AddOperatorRecordsSpanAndMetric(t *testing.T) {
	h := newHarness(t, application.NewService(memory.NewRepository()))

	saved, err := h.svc.AddOperator(context.Background(), domain.NewOperator(0, "Ada", "Lovelace", "secret"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	assert.Equal(t, []string{"OperatorService.AddOperator"}, h.spanNames())
	assert.Equal(t, int64(1), h.counter(t, "operators.service.created"))
	assert.Contains(t, h.logs.String(), "operator added")
	assert.NotContains(t, h.logs.String(), "secret")
}

func TestService_DeleteOperatorLogsExistingName(t *testing.T) {
	h := newHarness(t, application.NewService(memory.NewRepository()))
	ctx := context.Background()
	saved, err := h.svc.AddOperator(ctx, domain.NewOperator(0, "Grace", "Hopper", "pw"))
	require.NoError(t, err)

	require.NoError(t, h.svc.DeleteOperator(ctx, saved.ID))

	assert.Contains(t, h.logs.String(), "Grace Hopper")
	assert.Equal(t, int64(1), h.counter(t, "operators.service.deleted"))
}

func TestService_DeleteOperatorIgnoresLookupFailure(t *testing.T) {
	h := newHarness(t, application.NewService(memory.NewRepository()))

	require.NoError(t, h.svc.DeleteOperator(context.Background(), 404))
	assert.Equal(t, int64(1), h.counter(t, "operators.service.deleted"))
}

func TestService_ErrorsAreReturnedUnchanged(t *testing.T) {
	failure := errors.New("database unavailable")
	h := newHarness(t, failingService{err: failure})

	_, err := h.svc.RetrieveOperator(context.Background(), 3)
	require.Same(t, failure, err)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, h.logs.String(), "failed to retrieve operator")
	assert.Contains(t, h.logs.String(), "database unavailable")
}

func TestService_NotFoundPropagates(t *testing.T) {
	h := newHarness(t, application.NewService(memory.NewRepository()))

	_, err := h.svc.RetrieveOperator(context.Background(), 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_RetrieveAllLogsEachRecordAtDebug(t *testing.T) {
	h := newHarness(t, application.NewService(memory.NewRepository()))
	ctx := context.Background()
	for _, name := range []string{"Ada", "Alan"} {
		_, err := h.svc.AddOperator(ctx, domain.NewOperator(0, name, "X", "pw"))
		require.NoError(t, err)
	}

	all, err := h.svc.RetrieveAllOperators(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, h.logs.String(), `"level":"DEBUG"`)
	assert.Contains(t, h.logs.String(), "Ada X")
	assert.Contains(t, h.logs.String(), "Alan X")
}

func TestService_RetrieveAllSkipsRecordsAboveDebug(t *testing.T) {
	logs := &bytes.Buffer{}
	svc := New(application.NewService(memory.NewRepository()),
		WithLogger(slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))))
	ctx := context.Background()
	_, err := svc.AddOperator(ctx, domain.NewOperator(0, "Ada", "X", "pw"))
	require.NoError(t, err)

	_, err = svc.RetrieveAllOperators(ctx)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "operators retrieved")
	assert.NotContains(t, logs.String(), `"msg":"operator"`)
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(application.NewService(memory.NewRepository()), nil, WithLogger(nil), WithTracer(nil))

	_, err := svc.AddOperator(context.Background(), domain.NewOperator(0, "Ada", "Lovelace", "pw"))
	require.NoError(t, err)
}
