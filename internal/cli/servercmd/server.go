package servercmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuihairu/arcadehub/internal/analytics/mq"
	"github.com/cuihairu/arcadehub/internal/catalog"
	common "github.com/cuihairu/arcadehub/internal/cli/common"
	"github.com/cuihairu/arcadehub/internal/live"
	dom "github.com/cuihairu/arcadehub/internal/ports"
	httpserver "github.com/cuihairu/arcadehub/internal/server/http"
	"github.com/cuihairu/arcadehub/internal/telemetry"
)

// New returns the `arcadehub serve` command.
func New() *cobra.Command {
	var cfgFile, profile string
	var includes []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the games catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			// early logs go to stderr until log.* is known
			common.SetupLoggerWithFile("info", "console", "", 0, 0, 0, false)
			cfg, err := LoadConfig(cmd, cfgFile, includes, profile)
			if err != nil {
				return err
			}
			if err := common.ValidateServeConfig(cfg, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}
			logger := common.SetupLogger(cfg.Log)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Run(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml), supports a top-level 'arcadehub:' section")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "extra config files merged over --config in order")
	cmd.Flags().StringVar(&profile, "profile", "", "optional profiles.<name> overlay")
	cmd.Flags().String("http_addr", ":8080", "http listen address")
	cmd.Flags().String("catalog.location", "configs/games.json", "catalog document: path, http(s) URL or bucket URL")
	cmd.Flags().String("log.level", "info", "log level: debug|info|warn|error")
	cmd.Flags().String("log.format", "console", "log format: console|json")
	return cmd
}

// LoadConfig resolves the serve config for cmd. Precedence: changed flags,
// ARCADEHUB_* env, profile, includes, config file, defaults.
func LoadConfig(cmd *cobra.Command, cfgFile string, includes []string, profile string) (common.ServeConfig, error) {
	v, err := common.LoadServeViper(cfgFile, includes, profile)
	if err != nil {
		return common.ServeConfig{}, fmt.Errorf("read config: %w", err)
	}
	if cfgFile != "" {
		slog.Info("config loaded", "file", cfgFile, "includes", includes, "profile", profile)
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return common.ServeConfig{}, err
	}
	return common.ReadServeConfig(v), nil
}

// Run serves until ctx is done. The catalog loads in the background; the
// server answers immediately with an empty grid until it is published.
func Run(ctx context.Context, cfg common.ServeConfig, logger *slog.Logger) error {
	tp, err := telemetry.NewProvider(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	queue := mq.New(cfg.Analytics, logger)
	defer queue.Close()

	holder := catalog.NewHolder()
	if err := tp.Metrics.ObserveCatalog(func() int { return holder.Get().Len() }); err != nil {
		logger.Warn("catalog gauge", "error", err)
	}
	src, err := catalog.NewSource(cfg.Catalog)
	if err != nil {
		// a broken source behaves like a failed load: empty catalog, server still up
		logger.Error("catalog source", "error", err)
		holder.Set(dom.Catalog{})
	} else {
		go catalog.LoadInto(context.WithoutCancel(ctx), holder, src, logger)
	}

	srv := httpserver.NewServer(httpserver.Options{
		Holder:      holder,
		Recorder:    &live.Recorder{Queue: queue, Metrics: tp.Metrics, Logger: logger},
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Traced:      cfg.Telemetry.Enabled,
		LogCounters: common.GetLogCounters,
	})
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
