package inference

import (
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Precision is the numeric precision values are rounded to before they reach
// the engine. The engine always receives float32 storage.
type Precision string

const (
	// PrecisionFP32 converts float64 to float32. Magnitudes beyond float32
	// range become ±Inf and large integers lose their low digits.
	PrecisionFP32 Precision = "fp32"
	// PrecisionFP16 additionally rounds through IEEE 754 half precision, for
	// models exported with fp16 inputs.
	PrecisionFP16 Precision = "fp16"
)

// Options configures an Adapter. Empty names select the engine's first
// declared input or output.
type Options struct {
	Input     string
	Output    string
	Precision Precision
}

// Result is the engine output for one vector. Value is the first element of
// the selected output and is the scalar the HTTP layer returns. Output keeps
// the whole tensor for models with wider outputs.
type Result struct {
	Value  float64
	Output Tensor
}

// Adapter binds feature vectors to an engine. It is safe for concurrent use.
type Adapter struct {
	input     string
	output    string
	precision Precision
	direct    Engine
	pool      *handlePool
	handles   []Engine
}

// NewAdapter builds an adapter over one or more handles of the same model.
// A concurrent engine is called through its first handle; non-concurrent
// handles are pooled.
func NewAdapter(handles []Engine, opts Options) (*Adapter, error) {
	if len(handles) == 0 {
		return nil, errors.New("no engine handles")
	}
	first := handles[0]
	a := &Adapter{
		input:     opts.Input,
		output:    opts.Output,
		precision: opts.Precision,
		handles:   append([]Engine(nil), handles...),
	}
	if a.precision == "" {
		a.precision = PrecisionFP32
	}
	if a.precision != PrecisionFP32 && a.precision != PrecisionFP16 {
		return nil, fmt.Errorf("unsupported precision %q", opts.Precision)
	}
	var err error
	if a.input, err = pickName("input", a.input, first.Inputs()); err != nil {
		return nil, err
	}
	if a.output, err = pickName("output", a.output, first.Outputs()); err != nil {
		return nil, err
	}
	if first.Concurrent() {
		a.direct = first
	} else {
		a.pool = newHandlePool(handles)
	}
	return a, nil
}

func pickName(kind, want string, declared []string) (string, error) {
	if len(declared) == 0 {
		return "", fmt.Errorf("model declares no %ss", kind)
	}
	if want == "" {
		return declared[0], nil
	}
	for _, n := range declared {
		if n == want {
			return want, nil
		}
	}
	return "", fmt.Errorf("model has no %s named %q (declared: %v)", kind, want, declared)
}

// Input is the bound input tensor name.
func (a *Adapter) Input() string { return a.input }

// Output is the extracted output tensor name.
func (a *Adapter) Output() string { return a.output }

// InputWidth is the number of features the bound input takes, or 0 when the
// engine does not declare a fixed width.
func (a *Adapter) InputWidth() int {
	if w, ok := a.handles[0].(inputWidther); ok {
		return w.InputWidth(a.input)
	}
	return 0
}

// Concurrency is the number of Run calls that may be in flight at once.
// Zero means unbounded (the engine is concurrent).
func (a *Adapter) Concurrency() int {
	if a.pool == nil {
		return 0
	}
	return a.pool.size()
}

// Predict runs one vector through the engine as a [1, len(v)] tensor.
func (a *Adapter) Predict(v []float64) (res Result, err error) {
	in := Tensor{Shape: []int64{1, int64(len(v))}, Data: a.convert(v)}

	eng := a.direct
	if eng == nil {
		var release func()
		eng, release = a.pool.acquire()
		defer release()
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, InferenceError{Cause: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	outs, err := eng.Run(map[string]Tensor{a.input: in})
	if err != nil {
		return Result{}, InferenceError{Cause: err}
	}
	out, ok := outs[a.output]
	if !ok {
		return Result{}, InferenceError{Cause: fmt.Errorf("output %q not produced", a.output)}
	}
	if len(out.Data) == 0 {
		return Result{}, InferenceError{Cause: fmt.Errorf("output %q is empty", a.output)}
	}
	val := float64(out.Data[0])
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return Result{}, InferenceError{Cause: fmt.Errorf("output %q is not finite: %v", a.output, val)}
	}
	return Result{Value: val, Output: out}, nil
}

func (a *Adapter) convert(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		f := float32(x)
		if a.precision == PrecisionFP16 {
			f = float16.Fromfloat32(f).Float32()
		}
		out[i] = f
	}
	return out
}

// Close releases every handle owned by the adapter.
func (a *Adapter) Close() error {
	var errs []error
	for _, h := range a.handles {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
