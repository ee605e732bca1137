package config

import (
	"fmt"
	"strings"

	"predictd/internal/features"
	"predictd/internal/inference"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultAddr               = ":8000"
	DefaultModelPath          = "model.onnx"
	DefaultMaxBodyBytes int64 = 1 << 20
	DefaultReadTimeout        = 10
	DefaultWriteTimeout       = 30
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "console"
)

// WithDefaults returns a copy of c with every unset field filled in.
// Feature fields and categories default together: a config that sets only
// one of them keeps it as-is and Validate reports any mismatch.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Model.Path == "" {
		c.Model.Path = DefaultModelPath
	}
	if c.Model.Precision == "" {
		c.Model.Precision = string(inference.PrecisionFP32)
	}
	if c.Model.PoolSize <= 0 {
		c.Model.PoolSize = 1
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.HTTP.ReadTimeoutSeconds <= 0 {
		c.HTTP.ReadTimeoutSeconds = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeoutSeconds <= 0 {
		c.HTTP.WriteTimeoutSeconds = DefaultWriteTimeout
	}
	if len(c.HTTP.CORS.AllowedMethods) == 0 {
		c.HTTP.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.HTTP.CORS.AllowedHeaders) == 0 {
		c.HTTP.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-Id", "X-Log-Level"}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if len(c.Features.Fields) == 0 && len(c.Features.Categories) == 0 {
		c.Features.Fields = features.DefaultSchema()
		c.Features.Categories = features.DefaultTables()
	}
	return c
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	if strings.TrimSpace(c.Model.Path) == "" {
		return fmt.Errorf("model.path is required")
	}
	switch inference.Precision(c.Model.Precision) {
	case inference.PrecisionFP32, inference.PrecisionFP16:
	default:
		return fmt.Errorf("model.precision: unsupported value %q (want fp32|fp16)", c.Model.Precision)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (want console|json)", c.Log.Format)
	}
	if err := features.Schema(c.Features.Fields).Validate(c.Features.Categories); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	return nil
}
