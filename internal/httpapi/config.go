package httpapi

import "github.com/rs/zerolog"

// DefaultMaxBodyBytes is used when Options.MaxBodyBytes is not positive.
const DefaultMaxBodyBytes int64 = 1 << 20

// Options configures the HTTP layer built by NewMux.
type Options struct {
	// Metrics instruments every request and backs GET /metrics. Required.
	Metrics *Metrics
	// Logger receives request logs. The zero value discards them.
	Logger zerolog.Logger
	// LogLevel is the default request log level (off|error|info|debug);
	// requests may override it with ?log= or X-Log-Level.
	LogLevel string
	// MaxBodyBytes limits the size of POST /predict bodies.
	MaxBodyBytes int64
	// CORS is opt-in. If disabled, no CORS middleware is added.
	CORS CORSOptions
}

// CORSOptions mirrors config.CORSConfig.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func (o Options) maxBodyBytes() int64 {
	if o.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return o.MaxBodyBytes
}
