package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"predictd/internal/predictor"
	"predictd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(req types.PredictionRequest) (types.PredictionResponse, error)
}

// Liveness routes answer GET and HEAD without touching the service or the metrics.
var livenessPaths = []string{"/", "/health"}

// NewMux builds the router: GET /, GET /health, GET /metrics and POST /predict,
// all behind the instrumentation middleware except the liveness routes.
func NewMux(svc Service, opts Options) http.Handler {
	if opts.Metrics == nil {
		panic("httpapi: Options.Metrics is required")
	}
	opts.Metrics.Exempt(livenessPaths...)
	defLevel := parseLevel(opts.LogLevel)
	maxBody := opts.maxBodyBytes()

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// Instrumentation wraps the recoverer so a panic is counted as the 500
	// the recoverer writes.
	r.Use(opts.Metrics.Middleware)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORS.AllowedOrigins,
			AllowedMethods: opts.CORS.AllowedMethods,
			AllowedHeaders: opts.CORS.AllowedHeaders,
			MaxAge:         300,
		}))
	}

	status := func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, types.StatusResponse{Status: "ok"})
	}
	for _, p := range livenessPaths {
		r.Get(p, status)
		r.Head(p, status)
	}

	// Prometheus metrics endpoint
	r.Get("/metrics", opts.Metrics.Handler().ServeHTTP)

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		rl := newRequestLogger(opts.Logger, defLevel, r)
		start := time.Now()

		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		var req types.PredictionRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			rl.event(LevelDebug).Int("status", http.StatusUnprocessableEntity).Err(err).Msg("predict rejected")
			return
		}

		rl.event(LevelDebug).Msg("predict start")
		resp, err := svc.Predict(req)
		if err != nil {
			// Encoding and inference failures share the response; only the logs tell them apart.
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			rl.event(LevelError).Int("status", http.StatusInternalServerError).
				Str("kind", predictor.Kind(err)).Dur("dur", time.Since(start)).Err(err).Msg("predict end")
			return
		}
		if err := writeJSON(w, http.StatusOK, resp); err != nil {
			rl.event(LevelError).Int("status", http.StatusInternalServerError).
				Dur("dur", time.Since(start)).Err(err).Msg("predict end")
			return
		}
		rl.event(LevelInfo).Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("predict end")
	})

	MountSwagger(r)

	return r
}
