package mq

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config selects the analytics backend.
// Driver: noop (default) | memory | redis | kafka.
type Config struct {
	Driver       string
	RedisURL     string
	Stream       string
	MaxLen       int64
	Approx       bool
	KafkaBrokers []string
	KafkaTopic   string
}

// New builds a Queue for c. Misconfigured backends fall back to noop with a warning,
// so analytics never blocks serving.
func New(c Config, logger *slog.Logger) Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q, err := open(c)
	if err != nil {
		logger.Warn("analytics queue unavailable; using noop", "driver", c.Driver, "error", err)
		return NewNoop()
	}
	logger.Info("analytics queue ready", "driver", driverName(c))
	return q
}

func open(c Config) (Queue, error) {
	switch driverName(c) {
	case "noop":
		return NewNoop(), nil
	case "memory":
		return NewMemory(1000), nil
	case "redis":
		url := c.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		return NewRedis(url, c.Stream, c.MaxLen, c.Approx)
	case "kafka":
		brokers := make([]string, 0, len(c.KafkaBrokers))
		for _, b := range c.KafkaBrokers {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		if len(brokers) == 0 {
			return nil, fmt.Errorf("kafka brokers required")
		}
		return NewKafka(brokers, c.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unsupported analytics driver %q", c.Driver)
	}
}

func driverName(c Config) string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" {
		return "noop"
	}
	return d
}
