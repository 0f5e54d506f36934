package servercmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	common "github.com/cuihairu/arcadehub/internal/cli/common"
)

func TestRun_StopsOnCancel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "games.json")
	if err := os.WriteFile(p, []byte(`[{"id":1,"title":"Snake","url":"https://x/1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := common.ReadServeConfig(common.NewViper())
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.Catalog.Location = p
	cfg.Analytics.Driver = "memory"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, slog.Default()) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestRun_BadSourceStillServes(t *testing.T) {
	cfg := common.ReadServeConfig(common.NewViper())
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.Catalog = common.ServeConfig{}.Catalog
	cfg.Catalog.Driver = "ftp"

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, cfg, slog.Default()); err != nil {
		t.Fatalf("a broken catalog source must not stop serving: %v", err)
	}
}

func TestNew_Flags(t *testing.T) {
	cmd := New()
	for _, name := range []string{"config", "include", "profile", "http_addr", "catalog.location", "log.level", "log.format"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag %s", name)
		}
	}
}

func TestLoadConfig_FlagsBeatFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "arcadehub.yaml")
	body := "arcadehub:\n  http_addr: \":8080\"\n  catalog:\n    location: from-file.json\n  log:\n    level: info\n    format: json\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARCADEHUB_LOG_LEVEL", "error")

	cmd := New()
	for k, v := range map[string]string{"http_addr": ":9999", "log.level": "debug"} {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := LoadConfig(cmd, p, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.Log.Level != "debug" {
		t.Fatalf("flags must win: http_addr=%q log.level=%q", cfg.HTTPAddr, cfg.Log.Level)
	}
	// unset flags fall through to the file instead of their defaults
	if cfg.Catalog.Location != "from-file.json" || cfg.Log.Format != "json" {
		t.Fatalf("file values lost: %#v", cfg)
	}
}
