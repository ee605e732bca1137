package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"predictd/internal/common/fsutil"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PREDICTD_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if !fsutil.FileExists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays PREDICTD_* variables on c. Unset or empty variables
// leave the field unchanged.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("MODEL_PATH", &c.Model.Path)
	str("MODEL_INPUT", &c.Model.Input)
	str("MODEL_OUTPUT", &c.Model.Output)
	str("MODEL_PRECISION", &c.Model.Precision)
	str("ONNX_LIBRARY", &c.Model.ONNXLibrary)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "MODEL_POOL_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMODEL_POOL_SIZE: %w", EnvPrefix, err)
		}
		c.Model.PoolSize = n
	}
	if v, ok := lookup(EnvPrefix + "MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err)
		}
		c.HTTP.MaxBodyBytes = n
	}
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok && v != "" {
		c.HTTP.CORS.Enabled = true
		c.HTTP.CORS.AllowedOrigins = splitCSV(v)
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExpandPaths expands a leading '~' in the file paths of c.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Model.Path, &c.Model.ONNXLibrary} {
		v, err := fsutil.ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}
