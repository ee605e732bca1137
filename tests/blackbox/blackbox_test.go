package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const linearModel = `{"input":"float_input","output":"variable","weights":[0.5,0.001,-1,2,0.01,1],"bias":-3}`

const validRequest = `{"Age":30,"Income":50000,"Dependents":1,"Occupation":"Employed","Credit":700,"Property":"House"}`

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "predictd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/predictd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

func writeModel(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(p, []byte(linearModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func serverArgs(addr, modelPath string) []string {
	return []string{"serve", "--addr", addr, "--model", modelPath, "--env-file", "", "--log-format", "json"}
}

func startServer(t *testing.T, bin string, modelPath string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	base := "http://" + addr
	cmd := exec.Command(bin, serverArgs(addr, modelPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for /health
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	// Reserve a free port, then release listener before starting the server
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, writeModel(t), port)

	// liveness
	for _, path := range []string{"/", "/health"} {
		resp, body := get(t, sp.base+path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s %d %s", path, resp.StatusCode, string(body))
		}
		if !bytes.Contains(body, []byte(`"status":"ok"`)) {
			t.Fatalf("%s body=%s", path, string(body))
		}
	}

	// /predict
	resp, body := postJSON(t, sp.base+"/predict", []byte(validRequest))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/predict %d %s", resp.StatusCode, string(body))
	}
	var pred struct{ Prediction float64 `json:"prediction"` }
	if err := json.Unmarshal(body, &pred); err != nil {
		t.Fatalf("/predict json: %v body=%s", err, string(body))
	}
	if pred.Prediction < 70.99 || pred.Prediction > 71.01 {
		t.Fatalf("prediction=%v want 71", pred.Prediction)
	}

	// unknown category
	resp, body = postJSON(t, sp.base+"/predict", []byte(strings.Replace(validRequest, "Employed", "Retired", 1)))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unknown category %d %s", resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte("Retired")) {
		t.Fatalf("detail must name the label: %s", string(body))
	}

	// schema violation
	resp, body = postJSON(t, sp.base+"/predict", []byte(`{"Age":30}`))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("schema %d %s", resp.StatusCode, string(body))
	}

	// /metrics
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	for _, want := range []string{
		`predictd_http_requests_total{method="POST",path="/predict",status="200"} 1`,
		`predictd_http_requests_total{method="POST",path="/predict",status="500"} 1`,
		`predictd_http_requests_total{method="POST",path="/predict",status="422"} 1`,
		`predictd_http_errors_total{method="POST",path="/predict",status="500"} 1`,
	} {
		if !bytes.Contains(body, []byte(want)) {
			t.Fatalf("missing %q in /metrics", want)
		}
	}
	if bytes.Contains(body, []byte(`path="/health"`)) {
		t.Fatalf("/health must not be instrumented")
	}
}

func TestBlackbox_MissingModelExitsNonZero(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	missing := filepath.Join(t.TempDir(), "absent.onnx")
	cmd := exec.Command(bin, serverArgs(fmt.Sprintf("127.0.0.1:%d", port), missing)...)
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected non-zero exit, got %v\n%s", err, string(out))
	}
	if !bytes.Contains(out, []byte("absent.onnx")) {
		t.Fatalf("error must name the model path: %s", string(out))
	}
}
