package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "arcadehub"

const (
	GameIDKey     = attribute.Key("game.id")
	QueryEmptyKey = attribute.Key("search.query_empty")
	TransportKey  = attribute.Key("ui.transport") // ws|api
)

// Metrics groups the catalog's instruments.
type Metrics struct {
	SearchCounter           metric.Int64Counter
	GameOpenCounter         metric.Int64Counter
	GameReloadCounter       metric.Int64Counter
	FullscreenDeniedCounter metric.Int64Counter
	CatalogGames            metric.Int64ObservableGauge

	meter metric.Meter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}
	var err error
	if m.SearchCounter, err = meter.Int64Counter("arcadehub.search.count",
		metric.WithDescription("Search queries applied to the catalog"),
		metric.WithUnit("{queries}"),
	); err != nil {
		return nil, err
	}
	if m.GameOpenCounter, err = meter.Int64Counter("arcadehub.game.open.count",
		metric.WithDescription("Games opened in the player"),
		metric.WithUnit("{opens}"),
	); err != nil {
		return nil, err
	}
	if m.GameReloadCounter, err = meter.Int64Counter("arcadehub.game.reload.count",
		metric.WithDescription("Player reloads"),
		metric.WithUnit("{reloads}"),
	); err != nil {
		return nil, err
	}
	if m.FullscreenDeniedCounter, err = meter.Int64Counter("arcadehub.fullscreen.denied.count",
		metric.WithDescription("Fullscreen requests the browser refused"),
		metric.WithUnit("{requests}"),
	); err != nil {
		return nil, err
	}
	if m.CatalogGames, err = meter.Int64ObservableGauge("arcadehub.catalog.games",
		metric.WithDescription("Games in the published catalog"),
		metric.WithUnit("{games}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveCatalog reports size() on every collection of the catalog gauge.
func (m *Metrics) ObserveCatalog(size func() int) error {
	_, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(m.CatalogGames, int64(size()))
		return nil
	}, m.CatalogGames)
	return err
}

func (m *Metrics) RecordSearch(ctx context.Context, query, transport string) {
	m.SearchCounter.Add(ctx, 1, metric.WithAttributes(QueryEmptyKey.Bool(query == ""), TransportKey.String(transport)))
}

func (m *Metrics) RecordOpen(ctx context.Context, gameID, transport string) {
	m.GameOpenCounter.Add(ctx, 1, metric.WithAttributes(GameIDKey.String(gameID), TransportKey.String(transport)))
}

func (m *Metrics) RecordReload(ctx context.Context, gameID, transport string) {
	m.GameReloadCounter.Add(ctx, 1, metric.WithAttributes(GameIDKey.String(gameID), TransportKey.String(transport)))
}

func (m *Metrics) RecordFullscreenDenied(ctx context.Context, gameID, transport string) {
	m.FullscreenDeniedCounter.Add(ctx, 1, metric.WithAttributes(GameIDKey.String(gameID), TransportKey.String(transport)))
}
