package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func requestLogLevel(r *http.Request, def LogLevel) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return def
}

// requestLogger scopes a logger to one request and its effective level.
type requestLogger struct {
	log zerolog.Logger
	lvl LogLevel
}

func newRequestLogger(base zerolog.Logger, def LogLevel, r *http.Request) requestLogger {
	ctx := base.With().Str("path", r.URL.Path).Str("method", r.Method)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ctx = ctx.Str("request_id", rid)
	}
	return requestLogger{log: ctx.Logger(), lvl: requestLogLevel(r, def)}
}

// event returns a log event at the zerolog level matching min, or nil when
// the request level is below min. zerolog treats nil events as no-ops.
func (l requestLogger) event(min LogLevel) *zerolog.Event {
	if l.lvl < min {
		return nil
	}
	switch min {
	case LevelError:
		return l.log.Error()
	case LevelDebug:
		return l.log.Debug()
	default:
		return l.log.Info()
	}
}
