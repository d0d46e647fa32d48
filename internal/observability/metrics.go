package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewMeterProvider configures and registers the meter provider.
func NewMeterProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.OtelEnabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
	if cfg.OtelExporterEndpoint != "" {
		opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.OtelExporterEndpoint))
	}
	exporter, err := otlpmetricgrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized", zap.String("endpoint", cfg.OtelExporterEndpoint))
	return provider, nil
}

// Metrics exposes application-level instruments.
type Metrics struct {
	accessDenials    metric.Int64Counter
	aiQueries        metric.Int64Counter
	receiptScans     metric.Int64Counter
	invoicesIssued   metric.Int64Counter
	reportsGenerated metric.Int64Counter
}

// NewMetrics configures the domain metrics instruments.
func NewMetrics(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "quidflow"
	}
	meter := provider.Meter(name)

	accessDenials, err := meter.Int64Counter("quidflow_access_denials_total")
	if err != nil {
		return nil, err
	}
	aiQueries, err := meter.Int64Counter("quidflow_ai_queries_total")
	if err != nil {
		return nil, err
	}
	receiptScans, err := meter.Int64Counter("quidflow_receipt_scans_total")
	if err != nil {
		return nil, err
	}
	invoicesIssued, err := meter.Int64Counter("quidflow_invoices_issued_total")
	if err != nil {
		return nil, err
	}
	reportsGenerated, err := meter.Int64Counter("quidflow_reports_generated_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		accessDenials:    accessDenials,
		aiQueries:        aiQueries,
		receiptScans:     receiptScans,
		invoicesIssued:   invoicesIssued,
		reportsGenerated: reportsGenerated,
	}, nil
}

// RecordAccessDenial counts upgrade-required denials per route.
func (m *Metrics) RecordAccessDenial(ctx context.Context, route string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("route", strings.TrimSpace(route)))
	m.accessDenials.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAIQuery counts answered AI queries.
func (m *Metrics) RecordAIQuery(ctx context.Context) {
	if m == nil {
		return
	}
	m.aiQueries.Add(ctx, 1)
}

// RecordReceiptScan counts completed OCR scans.
func (m *Metrics) RecordReceiptScan(ctx context.Context) {
	if m == nil {
		return
	}
	m.receiptScans.Add(ctx, 1)
}

// RecordInvoiceIssued counts issued invoices.
func (m *Metrics) RecordInvoiceIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1)
}

// RecordReportGenerated counts generated reports per kind.
func (m *Metrics) RecordReportGenerated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// HTTPMetrics instruments inbound HTTP traffic.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewHTTPMetrics configures the HTTP instruments.
func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "quidflow"
	}
	meter := provider.Meter(name)

	requests, err := meter.Int64Counter("quidflow_http_requests_total")
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("quidflow_http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

func (h *HTTPMetrics) record(ctx context.Context, route, method string, status int, elapsed time.Duration) {
	if h == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status_code", status),
	)
	h.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	h.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"route":       {},
	"method":      {},
	"status_code": {},
	"kind":        {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
