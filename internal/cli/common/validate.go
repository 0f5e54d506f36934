package common

import (
	"fmt"
	"net"
	"os"
	"strings"
)

func fileExists(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

func ValidateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

// ValidateServeConfig rejects configurations serve cannot start with.
// With strict set, a local catalog file must also exist; otherwise a missing
// catalog only leaves the grid empty at runtime.
func ValidateServeConfig(c ServeConfig, strict bool) error {
	if err := ValidateAddr(c.HTTPAddr); err != nil {
		return fmt.Errorf("http_addr: %w", err)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout: must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Analytics.Driver) {
	case "", "noop", "memory", "redis", "kafka":
	default:
		return fmt.Errorf("analytics.driver: unknown driver %q", c.Analytics.Driver)
	}
	if r := c.Telemetry.SamplingRatio; r < 0 || r > 1 {
		return fmt.Errorf("telemetry.sampling_ratio: %v not in [0,1]", r)
	}
	if !strict {
		return nil
	}
	switch {
	case c.Catalog.BaseDir != "":
		if err := fileExists(c.Catalog.BaseDir); err != nil {
			return fmt.Errorf("catalog.base_dir: %w", err)
		}
	case (c.Catalog.Driver == "" || c.Catalog.Driver == "file") && !strings.Contains(c.Catalog.Location, "://"):
		if err := fileExists(c.Catalog.Location); err != nil {
			return fmt.Errorf("catalog.location: %w", err)
		}
	}
	return nil
}
