// Package config loads eventparse settings from a YAML or TOML file and
// EVENTPARSE_* environment variables.
//
// Precedence, lowest first: built-in defaults, the YAML file, the
// environment. Environment keys drop the prefix and split on the first
// underscore into section and field:
//
//	EVENTPARSE_HTTP_PORT           -> http.port
//	EVENTPARSE_ENGINE_LEXICON_PATH -> engine.lexicon_path
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zoneinfo database

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/Kostroma329/Calendar-bot/internal/logging"
	"github.com/Kostroma329/Calendar-bot/lexicon"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EVENTPARSE_"

const (
	maxFileSize = 1 << 20 // 1 MiB

	defaultHost            = "localhost"
	defaultPort            = 8080
	defaultShutdownTimeout = 10 * time.Second
	defaultTimezone        = "Local"
)

// Config is the complete eventparse configuration.
type Config struct {
	Log    logging.Config `koanf:"log"`
	HTTP   HTTPConfig     `koanf:"http"`
	Engine EngineConfig   `koanf:"engine"`
}

// HTTPConfig configures the extraction server.
type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// EngineConfig configures extraction.
type EngineConfig struct {
	// Timezone is an IANA zone name, or "Local".
	Timezone string `koanf:"timezone"`
	// LexiconPath points at a YAML tables file. Empty selects the
	// built-in Russian tables.
	LexiconPath string `koanf:"lexicon_path"`
	// WatchLexicon reloads LexiconPath when it changes while serving.
	WatchLexicon bool `koanf:"watch_lexicon"`
}

// Load reads the configuration. Files ending in .toml are read as TOML,
// anything else as YAML. An empty path skips the file; a named file that
// does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), parserFor(path)); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlParser{}
	}
	return yaml.Parser()
}

// tomlParser adapts BurntSushi/toml to koanf.Parser.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// envKey maps EVENTPARSE_HTTP_SHUTDOWN_TIMEOUT to http.shutdown_timeout.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = logging.DefaultConfig().Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logging.DefaultConfig().Format
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = defaultHost
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultPort
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = defaultTimezone
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http.port %d out of range 1-65535", c.HTTP.Port)
	}
	if c.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("config: negative http.shutdown_timeout %s", c.HTTP.ShutdownTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Engine.WatchLexicon && c.Engine.LexiconPath == "" {
		return fmt.Errorf("config: engine.watch_lexicon requires engine.lexicon_path")
	}
	return nil
}

// Location resolves Engine.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: engine.timezone %q: %w", c.Engine.Timezone, err)
	}
	return loc, nil
}

// LoadTables returns the knowledge tables named by Engine.LexiconPath,
// or the built-in tables when it is empty.
func (c *Config) LoadTables() (*lexicon.Tables, error) {
	if c.Engine.LexiconPath == "" {
		return lexicon.Default(), nil
	}
	content, err := ReadFile(c.Engine.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	tables, err := lexicon.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", c.Engine.LexiconPath, err)
	}
	return tables, nil
}

// ReadFile reads a regular file of at most 1 MiB.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%s is too large: %d bytes (max %d)", path, info.Size(), maxFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(content) > maxFileSize {
		return nil, fmt.Errorf("%s grew past %d bytes while reading", path, maxFileSize)
	}
	return content, nil
}
