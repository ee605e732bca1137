// Package predictor composes the feature encoder and the inference adapter
// into the service consumed by the HTTP layer.
package predictor

import (
	"fmt"

	"predictd/internal/features"
	"predictd/internal/inference"
	"predictd/pkg/types"
)

// Model is the part of inference.Adapter the predictor needs.
type Model interface {
	Predict(v []float64) (inference.Result, error)
}

// Predictor is safe for concurrent use: the encoder is immutable and the
// model serializes itself when its engine requires it.
type Predictor struct {
	enc   *features.Encoder
	model Model
}

// New returns a Predictor. enc and model are required.
func New(enc *features.Encoder, model Model) *Predictor {
	return &Predictor{enc: enc, model: model}
}

// Encode returns the feature vector for req.
func (p *Predictor) Encode(req types.PredictionRequest) (features.Vector, error) {
	return p.enc.Encode(features.FromRecord(req))
}

// Predict encodes req and runs it through the model. Errors keep their kind:
// features.UnknownCategoryError / MissingFieldError from encoding,
// inference.InferenceError from the model.
func (p *Predictor) Predict(req types.PredictionRequest) (types.PredictionResponse, error) {
	vec, err := p.Encode(req)
	if err != nil {
		return types.PredictionResponse{}, err
	}
	res, err := p.model.Predict(vec)
	if err != nil {
		return types.PredictionResponse{}, err
	}
	return types.PredictionResponse{Prediction: res.Value}, nil
}

// Kind names the stage an error came from, for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case features.IsUnknownCategory(err), features.IsMissingField(err):
		return "encoding"
	case inference.IsInferenceFailure(err):
		return "inference"
	default:
		return "internal"
	}
}

// CheckSchema reports schema fields the prediction request does not carry,
// or carries with a different kind. Such a schema would fail every request.
func CheckSchema(schema features.Schema) error {
	var n float64
	var l string
	full := features.FromRecord(types.PredictionRequest{
		Age: &n, Income: &n, Dependents: &n, Credit: &n,
		Occupation: &l, Property: &l,
	})
	for _, f := range schema {
		var ok bool
		switch f.Kind {
		case features.KindNumeric:
			_, ok = full.Numeric[f.Name]
		case features.KindCategorical:
			_, ok = full.Categorical[f.Name]
		}
		if !ok {
			return fmt.Errorf("schema field %q (%s) is not carried by the prediction request", f.Name, f.Kind)
		}
	}
	return nil
}

// CheckCompatible runs CheckSchema and checks the schema length against the
// model input width when the engine declares one.
func CheckCompatible(enc *features.Encoder, a *inference.Adapter) error {
	if err := CheckSchema(enc.Schema()); err != nil {
		return err
	}
	if w := a.InputWidth(); w > 0 && w != enc.Len() {
		return fmt.Errorf("model input %q takes %d features, schema has %d", a.Input(), w, enc.Len())
	}
	return nil
}

// Describe formats a one-line summary of the predictor for start-up logs.
func Describe(enc *features.Encoder, a *inference.Adapter) string {
	names := make([]string, 0, enc.Len())
	for _, f := range enc.Schema() {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("features=%v input=%s output=%s concurrency=%d", names, a.Input(), a.Output(), a.Concurrency())
}
