package features

import (
	"fmt"
	"strings"
)

// Kind tells the encoder how a field is turned into a number.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Field is one position of the feature vector.
type Field struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Kind Kind   `json:"kind" yaml:"kind" toml:"kind"`
}

// Schema is the ordered list of model inputs. The order must match the order
// the model was trained with.
type Schema []Field

// CategoryTable maps a category label to its integer code.
type CategoryTable map[string]int

// Tables holds one CategoryTable per categorical field name.
type Tables map[string]CategoryTable

// DefaultSchema returns the field order of the bundled credit model.
func DefaultSchema() Schema {
	return Schema{
		{Name: "Age", Kind: KindNumeric},
		{Name: "Income", Kind: KindNumeric},
		{Name: "Dependents", Kind: KindNumeric},
		{Name: "Occupation", Kind: KindCategorical},
		{Name: "Credit", Kind: KindNumeric},
		{Name: "Property", Kind: KindCategorical},
	}
}

// DefaultTables returns the category codes of the bundled credit model.
func DefaultTables() Tables {
	return Tables{
		"Occupation": {"Employed": 0, "Self-Employed": 1, "Unemployed": 2},
		"Property":   {"Apartment": 0, "Condo": 1, "House": 3},
	}
}

// Validate checks that the schema is non-empty, names are unique, kinds are
// known and every categorical field has a table.
func (s Schema) Validate(tables Tables) error {
	if len(s) == 0 {
		return fmt.Errorf("feature schema is empty")
	}
	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("feature %d: empty name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("feature %q: duplicate name", name)
		}
		seen[name] = struct{}{}
		switch f.Kind {
		case KindNumeric:
		case KindCategorical:
			if _, ok := tables[name]; !ok {
				return fmt.Errorf("feature %q: no category table", name)
			}
		default:
			return fmt.Errorf("feature %q: unknown kind %q", name, f.Kind)
		}
	}
	return nil
}

// clone returns deep copies so callers cannot mutate the encoder's state.
func (s Schema) clone() Schema { return append(Schema(nil), s...) }

func (t Tables) clone() Tables {
	out := make(Tables, len(t))
	for field, table := range t {
		ct := make(CategoryTable, len(table))
		for label, code := range table {
			ct[label] = code
		}
		out[field] = ct
	}
	return out
}
