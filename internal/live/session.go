package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/cuihairu/arcadehub/internal/catalog"
	"github.com/cuihairu/arcadehub/internal/telemetry"
	"github.com/cuihairu/arcadehub/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxMessageSize = 4 << 10
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

// Frame is what the server sends after every processed event.
type Frame struct {
	State   ui.State    `json:"state"`
	Effects []ui.Effect `json:"effects"`
	Page    ui.Page     `json:"page"`
	Error   string      `json:"error,omitempty"`
}

// Handler serves one live UI session per websocket connection.
type Handler struct {
	Holder   *catalog.Holder
	Recorder *Recorder
	Logger   *slog.Logger
	Upgrader websocket.Upgrader
}

func NewHandler(h *catalog.Holder, rec *Recorder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Holder:   h,
		Recorder: rec,
		Logger:   logger,
		Upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.Logger.Warn("ws upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		holder: h.Holder,
		rec:    h.Recorder,
		log:    h.Logger,
	}
	s.log = s.log.With("conn", s.id)
	s.log.Info("ws connected", "remote", r.RemoteAddr)
	s.run(r.Context())
	s.log.Info("ws closed")
}

type session struct {
	id     string
	conn   *websocket.Conn
	holder *catalog.Holder
	rec    *Recorder
	log    *slog.Logger
	state  ui.State
}

// run owns the session state. Events are applied strictly in arrival order.
func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ui.Envelope)
	go s.read(ctx, events)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	var ready <-chan struct{}
	if !s.holder.Loaded() {
		ready = s.holder.Ready()
	}
	if err := s.write(Frame{State: s.state, Page: s.page()}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ready:
			ready = nil
			if err := s.write(Frame{State: s.state, Page: s.page()}); err != nil {
				return
			}
		case env, ok := <-events:
			if !ok {
				return
			}
			if err := s.write(s.apply(ctx, env)); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *session) apply(ctx context.Context, env ui.Envelope) Frame {
	ev, err := env.Decode()
	if err != nil {
		s.log.Warn("ws event rejected", "type", env.Type, "error", err)
		return Frame{State: s.state, Page: s.page(), Error: err.Error()}
	}
	gameID := env.ID
	if gameID == "" && s.state.Open() {
		gameID = s.state.Selected.ID
	}
	ctx, span := telemetry.StartEventSpan(ctx, ui.Name(ev), gameID)
	defer span.End()

	c := s.holder.Get()
	prev := s.state
	next, effects, err := ui.Update(c, prev, ev)
	if err != nil {
		span.RecordError(err)
		lvl := slog.LevelWarn
		if !errors.Is(err, ui.ErrUnknownGame) && !errors.Is(err, ui.ErrUnknownEvent) {
			lvl = slog.LevelError
		}
		s.log.Log(ctx, lvl, "ws event failed", "event", ui.Name(ev), "error", err)
		return Frame{State: s.state, Page: s.page(), Error: err.Error()}
	}
	s.state = next
	s.rec.Record(ctx, TransportWS, s.id, prev, next, ev, effects)
	s.log.Debug("ws event", "event", ui.Name(ev), "effects", len(effects))
	return Frame{State: next, Effects: effects, Page: ui.BuildPage(c, next, s.holder.Loaded())}
}

func (s *session) page() ui.Page {
	return ui.BuildPage(s.holder.Get(), s.state, s.holder.Loaded())
}

func (s *session) write(f Frame) error {
	if f.Effects == nil {
		f.Effects = []ui.Effect{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug("ws write failed", "error", err)
		return err
	}
	return nil
}

// read decodes client frames until the connection fails; it closes out when done.
func (s *session) read(ctx context.Context, out chan<- ui.Envelope) {
	defer close(out)
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws read failed", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		var env ui.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			env = ui.Envelope{Type: "invalid"}
			s.log.Warn("ws frame not json", "error", err)
		}
		select {
		case out <- env:
		case <-ctx.Done():
			return
		}
	}
}
