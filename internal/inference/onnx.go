//go:build onnx

package inference

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// The onnxruntime environment is process-wide and initialised once.
var (
	ortOnce sync.Once
	ortErr  error
)

func initRuntime(lib string) error {
	ortOnce.Do(func() {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// onnxEngine wraps one session. Sessions are checked out of the adapter's
// pool, so Run is never called concurrently on the same engine.
type onnxEngine struct {
	session *ort.DynamicAdvancedSession
	inputs  []string
	outputs []string
	widths  map[string]int
}

func openONNX(path string, opts OpenOptions) ([]Engine, error) {
	if err := initRuntime(opts.ONNXLibrary); err != nil {
		return nil, fmt.Errorf("init onnxruntime: %w", err)
	}
	inInfo, outInfo, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model io: %w", err)
	}
	inputs := make([]string, 0, len(inInfo))
	widths := make(map[string]int, len(inInfo))
	for _, in := range inInfo {
		inputs = append(inputs, in.Name)
		// [batch, n] with a fixed n
		if d := in.Dimensions; len(d) == 2 && d[1] > 0 {
			widths[in.Name] = int(d[1])
		}
	}
	var outputs []string
	for _, out := range outInfo {
		if opts.Output == "" || out.Name == opts.Output {
			outputs = append(outputs, out.Name)
		}
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model declares inputs %v outputs %v (want output %q)", inputs, outputs, opts.Output)
	}

	handles := make([]Engine, 0, opts.PoolSize)
	for i := 0; i < opts.PoolSize; i++ {
		s, err := ort.NewDynamicAdvancedSession(path, inputs, outputs, nil)
		if err != nil {
			for _, h := range handles {
				_ = h.Close()
			}
			return nil, fmt.Errorf("create session %d: %w", i, err)
		}
		handles = append(handles, &onnxEngine{session: s, inputs: inputs, outputs: outputs, widths: widths})
	}
	return handles, nil
}

func (e *onnxEngine) Inputs() []string  { return append([]string(nil), e.inputs...) }
func (e *onnxEngine) Outputs() []string { return append([]string(nil), e.outputs...) }
func (e *onnxEngine) Concurrent() bool  { return false }

func (e *onnxEngine) InputWidth(name string) int { return e.widths[name] }

func (e *onnxEngine) Close() error { return e.session.Destroy() }

func (e *onnxEngine) Run(inputs map[string]Tensor) (map[string]Tensor, error) {
	ins := make([]ort.Value, len(e.inputs))
	defer func() {
		for _, v := range ins {
			if v != nil {
				_ = v.Destroy()
			}
		}
	}()
	for i, name := range e.inputs {
		t, ok := inputs[name]
		if !ok {
			return nil, fmt.Errorf("missing input %q", name)
		}
		ot, err := ort.NewTensor(ort.NewShape(t.Shape...), t.Data)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		ins[i] = ot
	}

	// nil outputs are allocated by onnxruntime with the shapes it computes.
	outs := make([]ort.Value, len(e.outputs))
	defer func() {
		for _, v := range outs {
			if v != nil {
				_ = v.Destroy()
			}
		}
	}()
	if err := e.session.Run(ins, outs); err != nil {
		return nil, err
	}

	res := make(map[string]Tensor, len(outs))
	for i, v := range outs {
		t, err := toTensor(v)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", e.outputs[i], err)
		}
		res[e.outputs[i]] = t
	}
	return res, nil
}

// toTensor copies an onnxruntime output into a float32 Tensor. Integer and
// double outputs are converted; anything else is rejected.
func toTensor(v ort.Value) (Tensor, error) {
	if v == nil {
		return Tensor{}, errors.New("not allocated")
	}
	shape := []int64(v.GetShape())
	switch t := v.(type) {
	case *ort.Tensor[float32]:
		return Tensor{Shape: shape, Data: append([]float32(nil), t.GetData()...)}, nil
	case *ort.Tensor[float64]:
		return Tensor{Shape: shape, Data: convertSlice(t.GetData())}, nil
	case *ort.Tensor[int64]:
		return Tensor{Shape: shape, Data: convertSlice(t.GetData())}, nil
	case *ort.Tensor[int32]:
		return Tensor{Shape: shape, Data: convertSlice(t.GetData())}, nil
	default:
		return Tensor{}, fmt.Errorf("unsupported output type %T", v)
	}
}

func convertSlice[T float64 | int64 | int32](in []T) []float32 {
	out := make([]float32, len(in))
	for i, x := range in {
		out[i] = float32(x)
	}
	return out
}
