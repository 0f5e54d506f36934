package live

import (
	"context"
	"log/slog"

	"github.com/cuihairu/arcadehub/internal/analytics/mq"
	"github.com/cuihairu/arcadehub/internal/telemetry"
	"github.com/cuihairu/arcadehub/internal/ui"
)

// Transport labels where an event came from.
const (
	TransportWS  = "ws"
	TransportAPI = "api"
)

// Recorder turns applied UI transitions into analytics events, metrics and logs.
// Publishing is best effort: failures are logged and never returned.
type Recorder struct {
	Queue   mq.Queue
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

func (r *Recorder) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Record inspects one transition prev -(ev)-> next with its effects.
func (r *Recorder) Record(ctx context.Context, transport, connID string, prev, next ui.State, ev ui.Event, effects []ui.Effect) {
	if r == nil {
		return
	}
	switch e := ev.(type) {
	case ui.QueryChanged, ui.ClearSearch:
		if r.Metrics != nil {
			r.Metrics.RecordSearch(ctx, next.Query, transport)
		}
		r.publish(mq.EventSearch, "", next.Query, connID)
	case ui.Select:
		if r.Metrics != nil {
			r.Metrics.RecordOpen(ctx, e.ID, transport)
		}
		r.publish(mq.EventGameOpen, e.ID, next.Query, connID)
	case ui.Reload:
		if len(effects) == 0 {
			return
		}
		if r.Metrics != nil {
			r.Metrics.RecordReload(ctx, next.Selected.ID, transport)
		}
		r.publish(mq.EventGameReload, next.Selected.ID, next.Query, connID)
	case ui.Close, ui.KeyPressed:
		if prev.Open() && !next.Open() {
			r.publish(mq.EventGameClose, prev.Selected.ID, next.Query, connID)
		}
	case ui.FullscreenFailed:
		for _, eff := range effects {
			if eff.Kind != ui.EffectLogDiagnostic {
				continue
			}
			r.logger().Warn("fullscreen denied", "conn", connID, "game", next.Selected.ID, "detail", eff.Detail)
			if r.Metrics != nil {
				r.Metrics.RecordFullscreenDenied(ctx, next.Selected.ID, transport)
			}
			r.publish(mq.EventFullscreenDenied, next.Selected.ID, next.Query, connID)
		}
	}
}

func (r *Recorder) publish(name, gameID, query, connID string) {
	if r.Queue == nil {
		return
	}
	if err := r.Queue.PublishEvent(mq.NewEvent(name, gameID, query, connID)); err != nil {
		r.logger().Warn("analytics publish failed", "event", name, "conn", connID, "error", err)
	}
}
