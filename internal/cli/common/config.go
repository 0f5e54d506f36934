package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cuihairu/arcadehub/internal/analytics/mq"
	"github.com/cuihairu/arcadehub/internal/catalog"
	"github.com/cuihairu/arcadehub/internal/telemetry"
)

// EnvPrefix is the prefix for environment overrides, e.g. ARCADEHUB_HTTP_ADDR.
const EnvPrefix = "ARCADEHUB"

// LoadWithIncludes reads base config and merges includes in order.
func LoadWithIncludes(base string, includes []string) (*viper.Viper, error) {
	v := viper.New()
	if base != "" {
		v.SetConfigFile(base)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	for _, inc := range includes {
		iv := viper.New()
		iv.SetConfigFile(inc)
		if err := iv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
		if err := v.MergeConfigMap(iv.AllSettings()); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
	}
	return v, nil
}

// mergeMaps recursively merges b into a.
func mergeMaps(a, b map[string]any) map[string]any {
	for k, vb := range b {
		if ma, ok := a[k].(map[string]any); ok {
			if mb, ok2 := vb.(map[string]any); ok2 {
				a[k] = mergeMaps(ma, mb)
				continue
			}
		}
		a[k] = vb
	}
	return a
}

// ApplySectionAndProfile narrows raw file settings to section when present and
// overlays profiles.<name>. A missing section is not an error: flat files are accepted as-is.
func ApplySectionAndProfile(settings map[string]any, section, profile string) (map[string]any, error) {
	if section != "" {
		if sub, ok := settings[section].(map[string]any); ok {
			settings = sub
		}
	}
	if profile == "" {
		return settings, nil
	}
	profiles, ok := settings["profiles"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("profiles not found")
	}
	p, ok := profiles[profile].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	base := make(map[string]any, len(settings))
	for k, v := range settings {
		if k != "profiles" {
			base[k] = v
		}
	}
	return mergeMaps(base, p), nil
}

// LoadServeViper layers config file, includes and profile under ARCADEHUB_* env and
// defaults. Flags bound afterwards with BindPFlags take precedence over all of them.
func LoadServeViper(file string, includes []string, profile string) (*viper.Viper, error) {
	v := NewViper()
	if file == "" && len(includes) == 0 {
		if profile != "" {
			return nil, fmt.Errorf("profile %s requires --config", profile)
		}
		return v, nil
	}
	fv, err := LoadWithIncludes(file, includes)
	if err != nil {
		return nil, err
	}
	settings, err := ApplySectionAndProfile(fv.AllSettings(), "arcadehub", profile)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	return v, nil
}

// NewViper returns a viper bound to ARCADEHUB_* env vars with defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	BindEnv(v)
	SetDefaults(v)
	return v
}

// BindEnv enables ARCADEHUB_* overrides; nested keys use '_' (catalog.location -> ARCADEHUB_CATALOG_LOCATION).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("catalog.location", "configs/games.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("analytics.driver", "noop")
	v.SetDefault("analytics.stream", "arcadehub:events")
	v.SetDefault("analytics.maxlen", 1000000)
	v.SetDefault("analytics.approx", true)
	v.SetDefault("analytics.kafka_topic", "arcadehub.events")
	v.SetDefault("telemetry.endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "arcadehub")
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("cors.allow_origins", []string{"*"})
}

// ServeConfig is the effective configuration of `arcadehub serve`.
type ServeConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	Catalog         catalog.Config
	Log             LogConfig
	Analytics       mq.Config
	Telemetry       telemetry.Config
	CORSOrigins     []string
}

// ReadServeConfig resolves the serve settings from v. Use LoadServeViper to build v
// so the `arcadehub:` section and profiles are already applied.
func ReadServeConfig(v *viper.Viper) ServeConfig {
	return ServeConfig{
		HTTPAddr:        v.GetString("http_addr"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		Catalog: catalog.Config{
			Driver:         v.GetString("catalog.driver"),
			Location:       v.GetString("catalog.location"),
			Bucket:         v.GetString("catalog.bucket"),
			Key:            v.GetString("catalog.key"),
			Region:         v.GetString("catalog.region"),
			Endpoint:       v.GetString("catalog.endpoint"),
			AccessKey:      v.GetString("catalog.access_key"),
			SecretKey:      v.GetString("catalog.secret_key"),
			ForcePathStyle: v.GetBool("catalog.force_path_style"),
			BaseDir:        v.GetString("catalog.base_dir"),
			DSN:            v.GetString("catalog.dsn"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age"),
			Compress:   v.GetBool("log.compress"),
		},
		Analytics: mq.Config{
			Driver:       v.GetString("analytics.driver"),
			RedisURL:     v.GetString("analytics.redis_url"),
			Stream:       v.GetString("analytics.stream"),
			MaxLen:       v.GetInt64("analytics.maxlen"),
			Approx:       v.GetBool("analytics.approx"),
			KafkaBrokers: splitList(v.GetStringSlice("analytics.kafka_brokers")),
			KafkaTopic:   v.GetString("analytics.kafka_topic"),
		},
		Telemetry: telemetry.Config{
			Enabled:        v.GetBool("telemetry.enabled"),
			Endpoint:       v.GetString("telemetry.endpoint"),
			ServiceName:    v.GetString("telemetry.service_name"),
			ServiceVersion: v.GetString("telemetry.service_version"),
			Environment:    v.GetString("telemetry.environment"),
			SamplingRatio:  v.GetFloat64("telemetry.sampling_ratio"),
		},
		CORSOrigins: splitList(v.GetStringSlice("cors.allow_origins")),
	}
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
