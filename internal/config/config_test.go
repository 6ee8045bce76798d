package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kostroma329/Calendar-bot/lexicon"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "localhost", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "Local", cfg.Engine.Timezone)
	assert.Empty(t, cfg.Engine.LexiconPath)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "eventparse.yaml", `
log:
  level: debug
  format: console
http:
  host: 0.0.0.0
  port: 9000
  shutdown_timeout: 3s
engine:
  timezone: Europe/Moscow
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "eventparse.toml", `
[log]
level = "debug"

[http]
port = 9200
shutdown_timeout = "2s"

[engine]
timezone = "UTC"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9200, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "UTC", cfg.Engine.Timezone)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "eventparse.yaml", "http:\n  port: 9000\n")
	t.Setenv("EVENTPARSE_HTTP_PORT", "9100")
	t.Setenv("EVENTPARSE_HTTP_SHUTDOWN_TIMEOUT", "1m")
	t.Setenv("EVENTPARSE_ENGINE_TIMEZONE", "UTC")
	t.Setenv("EVENTPARSE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, time.Minute, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "UTC", cfg.Engine.Timezone)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "http:\n  port: 70000\n", "http.port"},
		{"bad timezone", "engine:\n  timezone: Mars/Olympus\n", "engine.timezone"},
		{"bad log format", "log:\n  format: xml\n", "invalid format"},
		{"bad yaml", "http: [unclosed\n", "parsing"},
		{"negative timeout", "http:\n  shutdown_timeout: -1s\n", "shutdown_timeout"},
		{"watch without lexicon", "engine:\n  watch_lexicon: true\n", "watch_lexicon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "eventparse.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"EVENTPARSE_HTTP_PORT":             "http.port",
		"EVENTPARSE_HTTP_SHUTDOWN_TIMEOUT": "http.shutdown_timeout",
		"EVENTPARSE_ENGINE_LEXICON_PATH":   "engine.lexicon_path",
		"EVENTPARSE_DEBUG":                 "debug",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "big.yaml", strings.Repeat("a", maxFileSize+1))
		_, err := ReadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		got, err := ReadFile(writeFile(t, "small.yaml", "a: 1\n"))
		require.NoError(t, err)
		assert.Equal(t, "a: 1\n", string(got))
	})
}

func TestLoadTables(t *testing.T) {
	t.Parallel()

	t.Run("built-in", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		tables, err := cfg.LoadTables()
		require.NoError(t, err)
		assert.Same(t, lexicon.Default(), tables)
	})

	t.Run("from file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "tables.yaml", `
activities:
  - name: Кадриль
    variants: [кадриль]
venues:
  - name: Клуб
    variants: [в клубе]
`)
		cfg := &Config{Engine: EngineConfig{LexiconPath: path}}
		tables, err := cfg.LoadTables()
		require.NoError(t, err)
		assert.Equal(t, []string{"Кадриль"}, tables.Activities.Names())
		name, ok := tables.Venues.Canonical("В КЛУБЕ")
		require.True(t, ok)
		assert.Equal(t, "Клуб", name)
	})

	t.Run("conflict", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "tables.yaml", `
venues:
  - name: Первый
    variants: [дк]
  - name: Второй
    variants: [дк]
`)
		cfg := &Config{Engine: EngineConfig{LexiconPath: path}}
		_, err := cfg.LoadTables()
		assert.ErrorIs(t, err, lexicon.ErrConflict)
	})
}
