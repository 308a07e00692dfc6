package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "#FFD700", cfg.Style.StrokeColor)
	assert.Equal(t, 3, cfg.Style.StrokeWeight)
	assert.Equal(t, 37.0902, cfg.Map.FallbackLat)
	assert.Equal(t, -95.7129, cfg.Map.FallbackLng)
	assert.Equal(t, 4.0, cfg.Map.FallbackZoom)
	assert.Equal(t, 4, cfg.Map.Padding)
	assert.Equal(t, ".", cfg.Browse.Dir)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
style:
  stroke_color: "#00FF00"
map:
  padding: 2
`), 0o644))
	t.Setenv("KMLMAP_STYLE_STROKE_WEIGHT", "5")
	t.Setenv("KMLMAP_BROWSE_DIR", "/data")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "#00FF00", cfg.Style.StrokeColor)
	assert.Equal(t, 5, cfg.Style.StrokeWeight)
	assert.Equal(t, 2, cfg.Map.Padding)
	assert.Equal(t, "/data", cfg.Browse.Dir)
}

func TestLoadWorkingDirFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kmlmap.yaml"), []byte("map:\n  fallback_zoom: 7\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7.0, cfg.Map.FallbackZoom)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KMLMAP_STYLE_STROKE_COLOR", "gold")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style.stroke_color")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:    LogConfig{Level: "info", Format: "text"},
			Style:  StyleConfig{StrokeColor: "#FFD700", StrokeWeight: 3},
			Map:    MapConfig{FallbackLat: 37.0902, FallbackLng: -95.7129, FallbackZoom: 4, Padding: 4},
			Browse: BrowseConfig{Dir: "."},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"short color", func(c *Config) { c.Style.StrokeColor = "#FFF" }, "style.stroke_color"},
		{"non-hex color", func(c *Config) { c.Style.StrokeColor = "#GGGGGG" }, "style.stroke_color"},
		{"zero weight", func(c *Config) { c.Style.StrokeWeight = 0 }, "style.stroke_weight"},
		{"lat out of range", func(c *Config) { c.Map.FallbackLat = 91 }, "map.fallback_lat"},
		{"lng out of range", func(c *Config) { c.Map.FallbackLng = -181 }, "map.fallback_lng"},
		{"zoom out of range", func(c *Config) { c.Map.FallbackZoom = 19 }, "map.fallback_zoom"},
		{"negative padding", func(c *Config) { c.Map.Padding = -1 }, "map.padding"},
		{"empty dir", func(c *Config) { c.Browse.Dir = "" }, "browse.dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
