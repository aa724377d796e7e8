// Package config loads observatory build configuration.
//
// Sources, lowest priority first: built-in defaults, an optional YAML file,
// and OBSERVATORY_ environment variables. An environment variable maps to a
// key by dropping the prefix, lowercasing, and turning the first underscore
// into a dot: OBSERVATORY_DATA_FALLBACK_FILE sets data.fallback_file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/despinoUY/observatorio-datos-abiertos/internal/query"
	"github.com/despinoUY/observatorio-datos-abiertos/internal/snapshot"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "OBSERVATORY_"

type Config struct {
	Data    DataSection    `koanf:"data"`
	Site    SiteSection    `koanf:"site"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

type DataSection struct {
	Dir          string `koanf:"dir"`
	LatestFile   string `koanf:"latest_file"`
	FallbackFile string `koanf:"fallback_file"`
}

type SiteSection struct {
	OutDir   string `koanf:"out_dir"`
	Title    string `koanf:"title"`
	TopLimit int    `koanf:"top_limit"`
}

type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	File    string `koanf:"file"`
}

type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func Default() Config {
	return Config{
		Data: DataSection{
			Dir:          snapshot.DefaultDataDir(),
			LatestFile:   snapshot.LatestFile,
			FallbackFile: snapshot.FallbackFile,
		},
		Site: SiteSection{
			OutDir:   "dist",
			Title:    "Observatorio de Datos Abiertos",
			TopLimit: query.DefaultTopLimit,
		},
		Metrics: MetricsSection{
			Enabled: true,
			File:    "metrics.prom",
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"data": map[string]any{
			"dir":           d.Data.Dir,
			"latest_file":   d.Data.LatestFile,
			"fallback_file": d.Data.FallbackFile,
		},
		"site": map[string]any{
			"out_dir":   d.Site.OutDir,
			"title":     d.Site.Title,
			"top_limit": d.Site.TopLimit,
		},
		"metrics": map[string]any{
			"enabled": d.Metrics.Enabled,
			"file":    d.Metrics.File,
		},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
	}
}

// Load reads configuration from path (skipped when empty) and the environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaultMap()), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func (c Config) Validate() error {
	var errs []error

	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data.dir must not be empty"))
	}
	if c.Data.LatestFile == "" {
		errs = append(errs, errors.New("data.latest_file must not be empty"))
	}
	if c.Data.FallbackFile == "" {
		errs = append(errs, errors.New("data.fallback_file must not be empty"))
	}
	if c.Site.OutDir == "" {
		errs = append(errs, errors.New("site.out_dir must not be empty"))
	}
	if c.Site.TopLimit < 0 {
		errs = append(errs, fmt.Errorf("site.top_limit must not be negative, got %d", c.Site.TopLimit))
	}
	if c.Metrics.Enabled && c.Metrics.File == "" {
		errs = append(errs, errors.New("metrics.file must not be empty when metrics are enabled"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SnapshotOptions returns the loader options derived from the data section.
func (c Config) SnapshotOptions() []snapshot.Option {
	return []snapshot.Option{
		snapshot.WithLatestFile(c.Data.LatestFile),
		snapshot.WithFallbackFile(c.Data.FallbackFile),
	}
}
