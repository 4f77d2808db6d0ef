// Package metrics records library and HTTP metrics through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mrlokans/library/internal/inventory"
)

const meterName = "github.com/mrlokans/library"

var totalTimeframe = metric.WithAttributes(attribute.String("timeframe", "total"))

// LibraryMetrics counts copies entering and leaving the library. It is
// registered as an inventory observer.
type LibraryMetrics struct {
	added   metric.Int64Counter
	removed metric.Int64Counter
}

func NewLibraryMetrics(provider metric.MeterProvider) (*LibraryMetrics, error) {
	meter := provider.Meter(meterName)

	added, err := meter.Int64Counter("library.books.added",
		metric.WithDescription("Total number of books added to the library"),
		metric.WithUnit("{book}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create books added counter: %w", err)
	}

	removed, err := meter.Int64Counter("library.books.removed",
		metric.WithDescription("Total number of books removed from the library"),
		metric.WithUnit("{book}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create books removed counter: %w", err)
	}

	return &LibraryMetrics{added: added, removed: removed}, nil
}

func (m *LibraryMetrics) StockChanged(ctx context.Context, change inventory.StockChange) {
	switch {
	case change.Delta > 0:
		m.added.Add(ctx, int64(change.Delta), totalTimeframe)
	case change.Delta < 0:
		m.removed.Add(ctx, int64(-change.Delta), totalTimeframe)
	}
}

// HTTPMetrics times handled requests per route.
type HTTPMetrics struct {
	duration metric.Float64Histogram
}

func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	duration, err := provider.Meter(meterName).Float64Histogram("library.http.request.duration",
		metric.WithDescription("Execution time of HTTP handlers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}
	return &HTTPMetrics{duration: duration}, nil
}

// Record stores one request. route is the matched route pattern, not the
// raw path, to keep cardinality bounded.
func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	))
}
