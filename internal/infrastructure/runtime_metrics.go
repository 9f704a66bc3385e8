package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics reports process gauges on every collection
type RuntimeMetrics struct {
	registration metric.Registration
}

// RegisterRuntimeMetrics registers observable gauges for goroutines, heap
// usage, uptime and the number of cached tables. cachedTables may be nil.
func RegisterRuntimeMetrics(meter metric.Meter, start time.Time, cachedTables func() int) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64ObservableGauge("system_goroutines",
		metric.WithDescription("Number of active goroutines"))
	if err != nil {
		return nil, err
	}

	heap, err := meter.Int64ObservableGauge("system_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated and in use"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge("system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	tables, err := meter.Int64ObservableGauge("table_cache_entries",
		metric.WithDescription("Parsed tables held by the table store"))
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heap, int64(mem.HeapAlloc))
		o.ObserveFloat64(uptime, time.Since(start).Seconds())
		if cachedTables != nil {
			o.ObserveInt64(tables, int64(cachedTables()))
		}
		return nil
	}, goroutines, heap, uptime, tables)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{registration: reg}, nil
}

// Unregister stops reporting the gauges
func (m *RuntimeMetrics) Unregister() error {
	return m.registration.Unregister()
}
