package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"predictd/internal/features"
	"predictd/internal/httpapi"
	"predictd/internal/inference"
	"predictd/internal/predictor"
)

const linearModel = `{"input":"float_input","output":"variable","weights":[0.5,0.001,-1,2,0.01,1],"bias":-3}`

const validRequest = `{"Age":30,"Income":50000,"Dependents":1,"Occupation":"Employed","Credit":700,"Property":"House"}`

// openLinear writes the linear model artifact and opens it.
func openLinear(t *testing.T) []inference.Engine {
	t.Helper()
	p := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(p, []byte(linearModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	handles, err := inference.Open(p, inference.OpenOptions{})
	if err != nil {
		t.Fatalf("open model: %v", err)
	}
	return handles
}

// exclusiveEngine wraps an engine, reports it as unsafe for concurrent use
// and records how many callers were inside Run at once.
type exclusiveEngine struct {
	inference.Engine
	runs      atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func (e *exclusiveEngine) Concurrent() bool { return false }

func (e *exclusiveEngine) Run(in map[string]inference.Tensor) (map[string]inference.Tensor, error) {
	e.runs.Add(1)
	n := e.active.Add(1)
	defer e.active.Add(-1)
	for {
		m := e.maxActive.Load()
		if n <= m || e.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	return e.Engine.Run(in)
}

// newServer wires the full stack the way main does.
func newServer(t *testing.T, handles []inference.Engine) *httptest.Server {
	t.Helper()
	enc, err := features.NewEncoder(features.DefaultSchema(), features.DefaultTables())
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	adapter, err := inference.NewAdapter(handles, inference.Options{Precision: inference.PrecisionFP32})
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	t.Cleanup(func() { _ = adapter.Close() })
	metrics, err := httpapi.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	mux := httpapi.NewMux(predictor.New(enc, adapter), httpapi.Options{Metrics: metrics})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
