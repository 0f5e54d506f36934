package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/cuihairu/arcadehub/internal/catalog"
	"github.com/cuihairu/arcadehub/internal/live"
	"github.com/cuihairu/arcadehub/internal/telemetry"
	"github.com/cuihairu/arcadehub/internal/view"
)

// Options configures the HTTP surface.
type Options struct {
	Holder   *catalog.Holder
	Recorder *live.Recorder
	Logger   *slog.Logger
	// CORSOrigins lists allowed origins; empty or "*" allows any.
	CORSOrigins []string
	// Traced wraps the engine with otelhttp.
	Traced bool
	// LogCounters, when set, is reported by /healthz.
	LogCounters func() map[string]int64
}

type Server struct {
	holder      *catalog.Holder
	rec         *live.Recorder
	ws          *live.Handler
	html        view.Adapter
	tree        view.Adapter
	logger      *slog.Logger
	corsOrigins map[string]struct{}
	corsAny     bool
	traced      bool
	logCounters func() map[string]int64
	startedAt   time.Time
	httpSrv     *http.Server
}

func NewServer(o Options) *Server {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Holder == nil {
		o.Holder = catalog.NewHolder()
	}
	s := &Server{
		holder:      o.Holder,
		rec:         o.Recorder,
		ws:          live.NewHandler(o.Holder, o.Recorder, o.Logger),
		html:        view.HTML{},
		tree:        view.Tree{},
		logger:      o.Logger,
		corsOrigins: map[string]struct{}{},
		traced:      o.Traced,
		logCounters: o.LogCounters,
		startedAt:   time.Now(),
	}
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	for _, origin := range o.CORSOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			s.corsAny = true
		} else if origin != "" {
			s.corsOrigins[origin] = struct{}{}
		}
	}
	if len(s.corsOrigins) == 0 {
		s.corsAny = true
	}
	return s
}

// Handler returns the complete HTTP handler.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.ginEngine()
	if s.traced {
		h = telemetry.HTTPMiddleware(h, "arcadehub-http")
	}
	return h
}

func (s *Server) ginEngine() *gin.Engine {
	r := gin.New()
	r.Use(s.ginReqID(), s.ginCORS(), s.ginLogger(), s.ginSecurityHeaders(), s.ginRecovery())
	r.NoRoute(func(c *gin.Context) {
		s.respondError(c, http.StatusNotFound, "not_found", "not found")
	})
	s.routes(r)
	return r
}

// gin middlewares

func (s *Server) ginCORS() gin.HandlerFunc {
	const allowHeaders = "Content-Type, Authorization, X-Request-ID"
	const allowMethods = "GET, POST, OPTIONS"
	return func(c *gin.Context) {
		w := c.Writer
		origin := c.Request.Header.Get("Origin")
		if s.corsAny {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if _, ok := s.corsOrigins[origin]; ok && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ginReqID injects/propagates an X-Request-ID for traceability.
func (s *Server) ginReqID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if strings.TrimSpace(rid) == "" {
			b := make([]byte, 16)
			if _, err := rand.Read(b); err == nil {
				rid = hex.EncodeToString(b)
			} else {
				rid = fmt.Sprintf("%d", time.Now().UnixNano())
			}
		}
		c.Set("reqid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func (s *Server) ginSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		c.Next()
	}
}

func (s *Server) ginRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		rid, _ := c.Get("reqid")
		s.logger.Error("panic recovered", "path", c.Request.URL.Path, "reqid", rid, "panic", rec)
		s.respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
		c.Abort()
	})
}

func (s *Server) ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)
		lvl := slog.LevelInfo
		st := c.Writer.Status()
		if st >= 500 {
			lvl = slog.LevelError
		} else if st >= 400 {
			lvl = slog.LevelWarn
		}
		rid, _ := c.Get("reqid")
		s.logger.Log(c.Request.Context(), lvl, "http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", st,
			"bytes", c.Writer.Size(),
			"remote", c.ClientIP(),
			"reqid", rid,
			"dur_ms", dur.Milliseconds(),
		)
	}
}

type errBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError sends a unified JSON error body.
func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	rid, _ := c.Get("reqid")
	ridStr, _ := rid.(string)
	s.JSON(c, status, errBody{Code: code, Message: message, RequestID: ridStr})
}

func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http listening", "addr", ln.Addr().String())
	err := s.httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
