package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"predictd/internal/features"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr     string         `json:"addr" yaml:"addr" toml:"addr"`
	Model    ModelConfig    `json:"model" yaml:"model" toml:"model"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" toml:"http"`
	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
	Features FeaturesConfig `json:"features" yaml:"features" toml:"features"`
}

// ModelConfig locates the model artifact and how it is bound.
type ModelConfig struct {
	Path        string `json:"path" yaml:"path" toml:"path"`
	Input       string `json:"input" yaml:"input" toml:"input"`
	Output      string `json:"output" yaml:"output" toml:"output"`
	Precision   string `json:"precision" yaml:"precision" toml:"precision"`
	PoolSize    int    `json:"pool_size" yaml:"pool_size" toml:"pool_size"`
	ONNXLibrary string `json:"onnx_library" yaml:"onnx_library" toml:"onnx_library"`
}

// HTTPConfig tunes the HTTP server.
type HTTPConfig struct {
	MaxBodyBytes        int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	ReadTimeoutSeconds  int        `json:"read_timeout_seconds" yaml:"read_timeout_seconds" toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int        `json:"write_timeout_seconds" yaml:"write_timeout_seconds" toml:"write_timeout_seconds"`
	CORS                CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// LogConfig selects the log level and output format (console|json).
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

// FeaturesConfig is the feature schema and its category tables. Fields are
// in model input order.
type FeaturesConfig struct {
	Fields     []features.Field `json:"fields" yaml:"fields" toml:"fields"`
	Categories features.Tables  `json:"categories" yaml:"categories" toml:"categories"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
