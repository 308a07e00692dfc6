package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Style  StyleConfig  `mapstructure:"style"`
	Map    MapConfig    `mapstructure:"map"`
	Browse BrowseConfig `mapstructure:"browse"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives the TUI log; empty disables it.
	File string `mapstructure:"file"`
}

type StyleConfig struct {
	StrokeColor  string `mapstructure:"stroke_color"`
	StrokeWeight int    `mapstructure:"stroke_weight"`
}

type MapConfig struct {
	FallbackLat  float64 `mapstructure:"fallback_lat"`
	FallbackLng  float64 `mapstructure:"fallback_lng"`
	FallbackZoom float64 `mapstructure:"fallback_zoom"`
	Padding      int     `mapstructure:"padding"`
}

type BrowseConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from defaults, an optional config file and
// KMLMAP_* environment variables. An explicit path must exist; without one
// kmlmap.yaml is looked up in the working directory and $HOME/.config/kmlmap.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("style.stroke_color", "#FFD700")
	v.SetDefault("style.stroke_weight", 3)
	v.SetDefault("map.fallback_lat", 37.0902)
	v.SetDefault("map.fallback_lng", -95.7129)
	v.SetDefault("map.fallback_zoom", 4)
	v.SetDefault("map.padding", 4)
	v.SetDefault("browse.dir", ".")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("kmlmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "kmlmap"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// KMLMAP_STYLE_STROKE_COLOR → style.stroke_color
	v.SetEnvPrefix("KMLMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are sane.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if !validColor(c.Style.StrokeColor) {
		errs = append(errs, fmt.Sprintf("style.stroke_color must be a #RRGGBB color, got %q", c.Style.StrokeColor))
	}
	if c.Style.StrokeWeight < 1 || c.Style.StrokeWeight > 8 {
		errs = append(errs, fmt.Sprintf("style.stroke_weight must be 1-8, got %d", c.Style.StrokeWeight))
	}
	if c.Map.FallbackLat < -90 || c.Map.FallbackLat > 90 {
		errs = append(errs, fmt.Sprintf("map.fallback_lat must be -90..90, got %g", c.Map.FallbackLat))
	}
	if c.Map.FallbackLng < -180 || c.Map.FallbackLng > 180 {
		errs = append(errs, fmt.Sprintf("map.fallback_lng must be -180..180, got %g", c.Map.FallbackLng))
	}
	if c.Map.FallbackZoom < 0 || c.Map.FallbackZoom > 18 {
		errs = append(errs, fmt.Sprintf("map.fallback_zoom must be 0-18, got %g", c.Map.FallbackZoom))
	}
	if c.Map.Padding < 0 {
		errs = append(errs, "map.padding must not be negative")
	}
	if c.Browse.Dir == "" {
		errs = append(errs, "browse.dir is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
