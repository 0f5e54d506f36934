package telemetry

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, r *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch d := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range d.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range d.DataPoints {
					out[m.Name] = dp.Value
				}
			}
		}
	}
	return out
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		t.Fatal(err)
	}
	size := 3
	if err := m.ObserveCatalog(func() int { return size }); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.RecordSearch(ctx, "snake", "ws")
	m.RecordSearch(ctx, "", "api")
	m.RecordOpen(ctx, "1", "ws")
	m.RecordReload(ctx, "1", "ws")
	m.RecordReload(ctx, "1", "ws")
	m.RecordFullscreenDenied(ctx, "1", "ws")

	got := collect(t, reader)
	want := map[string]int64{
		"arcadehub.search.count":            2,
		"arcadehub.game.open.count":         1,
		"arcadehub.game.reload.count":       2,
		"arcadehub.fullscreen.denied.count": 1,
		"arcadehub.catalog.games":           3,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: got %d want %d", k, got[k], v)
		}
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.TracerProvider != nil || p.MeterProvider != nil || p.Metrics == nil {
		t.Fatalf("disabled provider must only build instruments")
	}
	p.Metrics.RecordOpen(context.Background(), "1", "api")
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestEndpointHost(t *testing.T) {
	cases := []struct {
		in       string
		host     string
		insecure bool
	}{
		{"", "localhost:4318", true},
		{"http://collector:4318", "collector:4318", true},
		{"https://otel.example.com/", "otel.example.com", false},
		{"collector:4318", "collector:4318", true},
	}
	for _, c := range cases {
		h, ins := endpointHost(c.in)
		if h != c.host || ins != c.insecure {
			t.Fatalf("%q: got %s %v", c.in, h, ins)
		}
	}
}
