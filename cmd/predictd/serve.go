package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"predictd/internal/config"
	"predictd/internal/features"
	"predictd/internal/httpapi"
	"predictd/internal/inference"
	"predictd/internal/predictor"
)

const shutdownTimeout = 5 * time.Second

func runServeCmd(cmd *cobra.Command, f *cliFlags) error {
	cfg, err := loadConfig(f, os.LookupEnv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, os.Stderr)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger, nil)
}

// serve loads the model, starts the HTTP server and blocks until ctx is
// done or the server fails. When ready is non-nil it receives the bound
// address once the listener is up.
func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger, ready func(addr string)) error {
	enc, err := features.NewEncoder(cfg.Features.Fields, cfg.Features.Categories)
	if err != nil {
		return inference.StartupError{Op: "configure", Path: cfg.Model.Path, Err: err}
	}
	adapter, err := openAdapter(cfg.Model)
	if err != nil {
		return err
	}
	if err := predictor.CheckCompatible(enc, adapter); err != nil {
		_ = adapter.Close()
		return inference.StartupError{Op: "bind", Path: cfg.Model.Path, Err: err}
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			logger.Warn().Err(err).Msg("model close")
		}
	}()
	logger.Info().Str("model", cfg.Model.Path).Str("predictor", predictor.Describe(enc, adapter)).Msg("model loaded")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := httpapi.NewMetrics(reg)
	if err != nil {
		return err
	}
	mux := httpapi.NewMux(predictor.New(enc, adapter), httpapi.Options{
		Metrics: metrics,
		// request-level gating happens in the HTTP layer
		Logger:       logger.Level(zerolog.DebugLevel),
		LogLevel:     cfg.Log.Level,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		CORS: httpapi.CORSOptions{
			Enabled:        cfg.HTTP.CORS.Enabled,
			AllowedOrigins: cfg.HTTP.CORS.AllowedOrigins,
			AllowedMethods: cfg.HTTP.CORS.AllowedMethods,
			AllowedHeaders: cfg.HTTP.CORS.AllowedHeaders,
		},
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	logger.Info().Str("addr", ln.Addr().String()).Msg("predictd listening")
	if ready != nil {
		ready(ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown error")
			return err
		}
		logger.Info().Msg("predictd stopped")
		return nil
	})
	return g.Wait()
}

// openAdapter loads the artifact and binds it. Handles are closed if binding fails.
func openAdapter(mc config.ModelConfig) (*inference.Adapter, error) {
	handles, err := inference.Open(mc.Path, inference.OpenOptions{
		PoolSize:    mc.PoolSize,
		ONNXLibrary: mc.ONNXLibrary,
		Output:      mc.Output,
	})
	if err != nil {
		return nil, err
	}
	adapter, err := inference.NewAdapter(handles, inference.Options{
		Input:     mc.Input,
		Output:    mc.Output,
		Precision: inference.Precision(mc.Precision),
	})
	if err != nil {
		for _, h := range handles {
			_ = h.Close()
		}
		return nil, inference.StartupError{Op: "bind", Path: mc.Path, Err: err}
	}
	return adapter, nil
}
