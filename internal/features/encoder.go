// Package features turns prediction requests into the ordered numeric vector
// the model was trained on.
package features

// Input is the record handed to the encoder, split by field kind.
type Input struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Record is anything that can present itself as an Input.
// types.PredictionRequest satisfies it.
type Record interface {
	Numeric() map[string]float64
	Categorical() map[string]string
}

// FromRecord builds an Input from a Record.
func FromRecord(r Record) Input {
	return Input{Numeric: r.Numeric(), Categorical: r.Categorical()}
}

// Vector is the encoded feature vector, in schema order.
type Vector []float64

// Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	schema Schema
	tables Tables
}

// NewEncoder validates the schema against the tables and returns an encoder
// holding private copies of both.
func NewEncoder(schema Schema, tables Tables) (*Encoder, error) {
	if err := schema.Validate(tables); err != nil {
		return nil, err
	}
	return &Encoder{schema: schema.clone(), tables: tables.clone()}, nil
}

// Schema returns a copy of the encoder's field order.
func (e *Encoder) Schema() Schema { return e.schema.clone() }

// Len is the length of every vector produced by Encode.
func (e *Encoder) Len() int { return len(e.schema) }

// Encode maps in to a Vector. Numeric values pass through unchanged;
// categorical labels are looked up and an absent label is an error.
func (e *Encoder) Encode(in Input) (Vector, error) {
	out := make(Vector, len(e.schema))
	for i, f := range e.schema {
		switch f.Kind {
		case KindNumeric:
			v, ok := in.Numeric[f.Name]
			if !ok {
				return nil, MissingFieldError{Field: f.Name, Kind: f.Kind}
			}
			out[i] = v
		case KindCategorical:
			label, ok := in.Categorical[f.Name]
			if !ok {
				return nil, MissingFieldError{Field: f.Name, Kind: f.Kind}
			}
			code, ok := e.tables[f.Name][label]
			if !ok {
				return nil, UnknownCategoryError{Field: f.Name, Label: label}
			}
			out[i] = float64(code)
		}
	}
	return out, nil
}
