package httpserver

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/cuihairu/arcadehub/internal/live"
	dom "github.com/cuihairu/arcadehub/internal/ports"
	"github.com/cuihairu/arcadehub/internal/search"
	"github.com/cuihairu/arcadehub/internal/telemetry"
	"github.com/cuihairu/arcadehub/internal/ui"
	"github.com/cuihairu/arcadehub/internal/view"
)

const maxUpdateBody = 64 << 10

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", s.handleIndex)
	r.GET("/play/:id", s.handlePlay)
	r.GET("/assets/app.js", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", view.AppJS)
	})
	r.GET("/ws", gin.WrapH(s.ws))
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/games", s.handleListGames)
	api.GET("/games/:id", s.handleGetGame)
	api.GET("/page", s.handlePageTree)
	api.POST("/ui/update", s.handleUpdate)
}

// adapterFor picks the JSON tree for script clients and HTML otherwise.
func (s *Server) adapterFor(c *gin.Context) view.Adapter {
	if strings.EqualFold(c.Query("format"), "tree") || c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		return s.tree
	}
	return s.html
}

func (s *Server) renderPage(c *gin.Context, status int, a view.Adapter, p ui.Page) {
	var buf bytes.Buffer
	if err := a.Render(&buf, p); err != nil {
		s.logger.Error("render page", "error", err)
		s.respondError(c, http.StatusInternalServerError, "internal_error", "render failed")
		return
	}
	if _, ok := a.(view.HTML); ok {
		c.Header("Content-Security-Policy", view.ContentSecurityPolicy)
	}
	c.Data(status, a.ContentType(), buf.Bytes())
}

func (s *Server) handleIndex(c *gin.Context) {
	st := ui.State{Query: c.Query("q")}
	if st.Query != "" {
		s.rec.Record(c.Request.Context(), live.TransportAPI, "", ui.State{}, st, ui.QueryChanged{Query: st.Query}, nil)
	}
	s.renderPage(c, http.StatusOK, s.adapterFor(c), ui.BuildPage(s.holder.Get(), st, s.holder.Loaded()))
}

func (s *Server) handlePlay(c *gin.Context) {
	cat := s.holder.Get()
	base := ui.State{Query: c.Query("q")}
	id := c.Param("id")
	ctx, span := telemetry.StartEventSpan(c.Request.Context(), "select", id)
	defer span.End()
	st, effects, err := ui.Update(cat, base, ui.Select{ID: id})
	if err != nil {
		span.RecordError(err)
		p := ui.BuildPage(cat, base, s.holder.Loaded())
		status := http.StatusNotFound
		p.Notice = "game not found"
		if !s.holder.Loaded() {
			status = http.StatusOK
			p.Notice = "catalog is still loading"
		}
		s.renderPage(c, status, s.adapterFor(c), p)
		return
	}
	s.rec.Record(ctx, live.TransportAPI, "", base, st, ui.Select{ID: id}, effects)
	s.renderPage(c, http.StatusOK, s.adapterFor(c), ui.BuildPage(cat, st, true))
}

func (s *Server) handlePageTree(c *gin.Context) {
	cat := s.holder.Get()
	st := ui.State{Query: c.Query("q")}
	if id := c.Query("game"); id != "" {
		next, _, err := ui.Update(cat, st, ui.Select{ID: id})
		if err != nil {
			s.respondError(c, http.StatusNotFound, "not_found", "game not found")
			return
		}
		st = next
	}
	s.renderPage(c, http.StatusOK, s.tree, ui.BuildPage(cat, st, s.holder.Loaded()))
}

type gamesResponse struct {
	Games []dom.Game `json:"games"`
	Count int        `json:"count"`
}

func (s *Server) handleListGames(c *gin.Context) {
	games := search.Filter(s.holder.Get().Games(), c.Query("q"))
	s.JSON(c, http.StatusOK, gamesResponse{Games: games, Count: len(games)})
}

func (s *Server) handleGetGame(c *gin.Context) {
	g, ok := s.holder.Get().Find(c.Param("id"))
	if !ok {
		s.respondError(c, http.StatusNotFound, "not_found", "game not found")
		return
	}
	s.JSON(c, http.StatusOK, g)
}

type updateRequest struct {
	State ui.State    `json:"state"`
	Event ui.Envelope `json:"event"`
}

type updateResponse struct {
	State   ui.State    `json:"state"`
	Effects []ui.Effect `json:"effects"`
	Page    ui.Page     `json:"page"`
}

// handleUpdate is the stateless form of the live session: the client carries the state.
func (s *Server) handleUpdate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpdateBody)
	var req updateRequest
	if err := jsonAPI.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ev, err := req.Event.Decode()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	cat := s.holder.Get()
	prev := normalizeState(cat, req.State)
	ctx, span := telemetry.StartEventSpan(c.Request.Context(), ui.Name(ev), req.Event.ID)
	defer span.End()
	next, effects, err := ui.Update(cat, prev, ev)
	switch {
	case errors.Is(err, ui.ErrUnknownGame):
		s.respondError(c, http.StatusNotFound, "not_found", err.Error())
		return
	case err != nil:
		s.respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.rec.Record(ctx, live.TransportAPI, c.GetString("reqid"), prev, next, ev, effects)
	if effects == nil {
		effects = []ui.Effect{}
	}
	s.JSON(c, http.StatusOK, updateResponse{State: next, Effects: effects, Page: ui.BuildPage(cat, next, s.holder.Loaded())})
}

// normalizeState re-resolves a client supplied selection against the catalog so
// a client cannot point the frame at a URL the catalog does not list.
func normalizeState(cat dom.Catalog, st ui.State) ui.State {
	if st.Selected == nil {
		st.Frame.Src = ""
		st.ScrollLocked = false
		return st
	}
	g, ok := cat.Find(st.Selected.ID)
	if !ok {
		st.Selected = nil
		st.Frame.Src = ""
		st.ScrollLocked = false
		return st
	}
	st.Selected = &g
	st.Frame.Src = g.URL
	st.ScrollLocked = true
	return st
}

type healthResponse struct {
	Status        string           `json:"status"`
	CatalogLoaded bool             `json:"catalog_loaded"`
	Games         int              `json:"games"`
	StartedAt     time.Time        `json:"started_at"`
	Logs          map[string]int64 `json:"logs,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		CatalogLoaded: s.holder.Loaded(),
		Games:         s.holder.Get().Len(),
		StartedAt:     s.startedAt,
	}
	if s.logCounters != nil {
		resp.Logs = s.logCounters()
	}
	s.JSON(c, http.StatusOK, resp)
}
