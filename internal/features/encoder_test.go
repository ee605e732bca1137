package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictd/pkg/types"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func creditRequest(occupation, property string) types.PredictionRequest {
	return types.PredictionRequest{
		Age:        f64(30),
		Income:     f64(50000),
		Dependents: f64(1),
		Occupation: str(occupation),
		Credit:     f64(700),
		Property:   str(property),
	}
}

func newDefaultEncoder(t *testing.T) *Encoder {
	t.Helper()
	enc, err := NewEncoder(DefaultSchema(), DefaultTables())
	require.NoError(t, err)
	return enc
}

func TestEncode_CreditExample(t *testing.T) {
	enc := newDefaultEncoder(t)
	got, err := enc.Encode(FromRecord(creditRequest("Employed", "House")))
	require.NoError(t, err)
	assert.Equal(t, Vector{30, 50000, 1, 0, 700, 3}, got)
	assert.Equal(t, 6, enc.Len())
}

func TestEncode_AllCategoryCodes(t *testing.T) {
	enc := newDefaultEncoder(t)
	cases := []struct {
		occupation, property string
		wantOcc, wantProp    float64
	}{
		{"Employed", "Apartment", 0, 0},
		{"Self-Employed", "Condo", 1, 1},
		{"Unemployed", "House", 2, 3},
	}
	for _, tc := range cases {
		v, err := enc.Encode(FromRecord(creditRequest(tc.occupation, tc.property)))
		require.NoError(t, err, "%s/%s", tc.occupation, tc.property)
		assert.Equal(t, tc.wantOcc, v[3])
		assert.Equal(t, tc.wantProp, v[5])
	}
}

func TestEncode_Deterministic(t *testing.T) {
	enc := newDefaultEncoder(t)
	in := FromRecord(creditRequest("Self-Employed", "Condo"))
	in.Numeric["Income"] = 123456.789e3
	a, err := enc.Encode(in)
	require.NoError(t, err)
	b, err := enc.Encode(in)
	require.NoError(t, err)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]), "index %d", i)
	}
}

func TestEncode_UnknownCategory(t *testing.T) {
	enc := newDefaultEncoder(t)
	_, err := enc.Encode(FromRecord(creditRequest("Retired", "House")))
	require.Error(t, err)
	assert.True(t, IsUnknownCategory(err))
	var uc UnknownCategoryError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "Occupation", uc.Field)
	assert.Equal(t, "Retired", uc.Label)
	assert.Contains(t, err.Error(), "Occupation")
	assert.Contains(t, err.Error(), "Retired")
}

func TestEncode_LabelsAreCaseSensitive(t *testing.T) {
	enc := newDefaultEncoder(t)
	_, err := enc.Encode(FromRecord(creditRequest("Employed", "house")))
	assert.True(t, IsUnknownCategory(err))
}

func TestEncode_NumericPassThrough(t *testing.T) {
	enc := newDefaultEncoder(t)
	in := FromRecord(creditRequest("Employed", "House"))
	in.Numeric["Age"] = -5
	in.Numeric["Credit"] = 1e300
	v, err := enc.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, -5.0, v[0])
	assert.Equal(t, 1e300, v[4])
}

func TestEncode_MissingField(t *testing.T) {
	enc := newDefaultEncoder(t)
	req := creditRequest("Employed", "House")
	req.Credit = nil
	_, err := enc.Encode(FromRecord(req))
	require.Error(t, err)
	assert.True(t, IsMissingField(err))
	assert.False(t, IsUnknownCategory(err))
}

func TestEncode_CustomOrder(t *testing.T) {
	schema := Schema{
		{Name: "Property", Kind: KindCategorical},
		{Name: "Age", Kind: KindNumeric},
	}
	enc, err := NewEncoder(schema, DefaultTables())
	require.NoError(t, err)
	v, err := enc.Encode(FromRecord(creditRequest("Employed", "Condo")))
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 30}, v)
}

func TestNewEncoder_RejectsBadSchema(t *testing.T) {
	tables := DefaultTables()
	cases := map[string]Schema{
		"empty":      {},
		"blank name": {{Name: " ", Kind: KindNumeric}},
		"duplicate":  {{Name: "Age", Kind: KindNumeric}, {Name: "Age", Kind: KindNumeric}},
		"bad kind":   {{Name: "Age", Kind: "ordinal"}},
		"no table":   {{Name: "Region", Kind: KindCategorical}},
	}
	for name, s := range cases {
		_, err := NewEncoder(s, tables)
		assert.Error(t, err, name)
	}
}

func TestNewEncoder_CopiesTables(t *testing.T) {
	tables := DefaultTables()
	enc, err := NewEncoder(DefaultSchema(), tables)
	require.NoError(t, err)
	tables["Occupation"]["Retired"] = 9
	_, err = enc.Encode(FromRecord(creditRequest("Retired", "House")))
	assert.True(t, IsUnknownCategory(err))
}

func TestEncode_EmptyLabelIsUnknownCategory(t *testing.T) {
	enc := newDefaultEncoder(t)
	_, err := enc.Encode(FromRecord(creditRequest("", "House")))
	require.Error(t, err)
	var uc UnknownCategoryError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "Occupation", uc.Field)
	assert.Equal(t, "", uc.Label)
}

func TestEncode_NilLabelIsMissingField(t *testing.T) {
	req := creditRequest("Employed", "House")
	req.Property = nil
	_, err := newDefaultEncoder(t).Encode(FromRecord(req))
	assert.True(t, IsMissingField(err))
}
