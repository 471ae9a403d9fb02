package server

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "tickbar"

type metrics struct {
	requests metric.Int64Counter
	bars     metric.Int64Counter
}

// newMetrics wires an OpenTelemetry meter into the default prometheus
// registry, so /metrics serves everything recorded here.
func newMetrics(ds Dataset) (*metrics, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	requests, err := meter.Int64Counter("tickbar_aggregate_requests_total",
		metric.WithDescription("Aggregation requests served, by status"))
	if err != nil {
		return nil, err
	}
	bars, err := meter.Int64Counter("tickbar_bars_emitted_total",
		metric.WithDescription("OHLCV bars emitted by aggregation requests"))
	if err != nil {
		return nil, err
	}

	if err := registerDatasetGauges(meter, ds); err != nil {
		return nil, err
	}

	return &metrics{requests: requests, bars: bars}, nil
}

// registerDatasetGauges exposes the (static) sizes of the loaded dataset.
func registerDatasetGauges(meter metric.Meter, ds Dataset) error {
	_, err := meter.Int64ObservableGauge("tickbar_rows_loaded",
		metric.WithDescription("Raw rows read by the source"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(ds.RowsLoaded()))
			return nil
		}))
	if err != nil {
		return err
	}
	_, err = meter.Int64ObservableGauge("tickbar_ticks_kept",
		metric.WithDescription("Ticks that survived cleaning"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(ds.Size()))
			return nil
		}))
	if err != nil {
		return err
	}
	_, err = meter.Int64ObservableGauge("tickbar_ticks_rejected",
		metric.WithDescription("Ticks rejected by the cleaner, by rule"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for reason, n := range ds.Report().Rejections {
				o.Observe(int64(n), metric.WithAttributes(attribute.String("reason", string(reason))))
			}
			return nil
		}))
	return err
}

func (m *metrics) observe(ctx context.Context, barCount int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if barCount > 0 {
		m.bars.Add(ctx, int64(barCount))
	}
}
