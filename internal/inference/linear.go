package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LinearArtifact is the on-disk form of a linear model:
//
//	y = activation(bias + sum(weights[i] * x[i]))
type LinearArtifact struct {
	Input      string    `json:"input" yaml:"input"`
	Output     string    `json:"output" yaml:"output"`
	Weights    []float32 `json:"weights" yaml:"weights"`
	Bias       float32   `json:"bias" yaml:"bias"`
	Activation string    `json:"activation,omitempty" yaml:"activation,omitempty"`
}

const (
	activationIdentity = "identity"
	activationSigmoid  = "sigmoid"
)

// linearEngine is immutable after load and therefore concurrent.
type linearEngine struct {
	art LinearArtifact
}

// NewLinearEngine validates art and returns an engine over it.
func NewLinearEngine(art LinearArtifact) (Engine, error) {
	if strings.TrimSpace(art.Input) == "" {
		return nil, errors.New("linear model: input name is required")
	}
	if strings.TrimSpace(art.Output) == "" {
		return nil, errors.New("linear model: output name is required")
	}
	if len(art.Weights) == 0 {
		return nil, errors.New("linear model: no weights")
	}
	switch art.Activation {
	case "":
		art.Activation = activationIdentity
	case activationIdentity, activationSigmoid:
	default:
		return nil, fmt.Errorf("linear model: unknown activation %q", art.Activation)
	}
	art.Weights = append([]float32(nil), art.Weights...)
	return &linearEngine{art: art}, nil
}

// loadLinear reads a linear artifact in JSON or YAML, chosen by extension.
func loadLinear(path string) (Engine, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var art LinearArtifact
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(b, &art); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &art); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported linear model extension: %s", ext)
	}
	return NewLinearEngine(art)
}

func (e *linearEngine) Inputs() []string  { return []string{e.art.Input} }
func (e *linearEngine) Outputs() []string { return []string{e.art.Output} }
func (e *linearEngine) Concurrent() bool  { return true }
func (e *linearEngine) Close() error      { return nil }

func (e *linearEngine) InputWidth(name string) int {
	if name != e.art.Input {
		return 0
	}
	return len(e.art.Weights)
}

func (e *linearEngine) Run(inputs map[string]Tensor) (map[string]Tensor, error) {
	in, ok := inputs[e.art.Input]
	if !ok {
		return nil, fmt.Errorf("missing input %q", e.art.Input)
	}
	n := len(e.art.Weights)
	if len(in.Shape) != 2 || in.Shape[0] != 1 || in.Shape[1] != int64(n) || len(in.Data) != n {
		return nil, fmt.Errorf("input %q: shape %v does not match [1 %d]", e.art.Input, in.Shape, n)
	}
	sum := e.art.Bias
	for i, w := range e.art.Weights {
		sum += w * in.Data[i]
	}
	if e.art.Activation == activationSigmoid {
		sum = float32(1 / (1 + math.Exp(-float64(sum))))
	}
	if math.IsNaN(float64(sum)) {
		return nil, errors.New("linear model produced NaN")
	}
	return map[string]Tensor{
		e.art.Output: {Shape: []int64{1, 1}, Data: []float32{sum}},
	}, nil
}
