package types

// PredictionRequest is the POST /predict payload. Every field is required.
// Fields are pointers so that an explicit 0 or "" is distinguishable from an
// omitted field.
type PredictionRequest struct {
	// Applicant age in years.
	// example: 30
	Age *float64 `json:"Age" validate:"required" example:"30"`
	// Yearly income.
	// example: 50000
	Income *float64 `json:"Income" validate:"required" example:"50000"`
	// Number of dependents.
	// example: 1
	Dependents *float64 `json:"Dependents" validate:"required" example:"1"`
	// Occupation category label.
	// example: Employed
	Occupation *string `json:"Occupation" validate:"required" example:"Employed"`
	// Credit score.
	// example: 700
	Credit *float64 `json:"Credit" validate:"required" example:"700"`
	// Property category label.
	// example: House
	Property *string `json:"Property" validate:"required" example:"House"`
}

// Numeric returns the numeric fields keyed by their JSON name. Nil fields are omitted.
func (r PredictionRequest) Numeric() map[string]float64 {
	out := make(map[string]float64, 4)
	for name, p := range map[string]*float64{
		"Age":        r.Age,
		"Income":     r.Income,
		"Dependents": r.Dependents,
		"Credit":     r.Credit,
	} {
		if p != nil {
			out[name] = *p
		}
	}
	return out
}

// Categorical returns the categorical fields keyed by their JSON name. Nil
// fields are omitted; an empty label is kept and left to the encoder.
func (r PredictionRequest) Categorical() map[string]string {
	out := make(map[string]string, 2)
	for name, p := range map[string]*string{
		"Occupation": r.Occupation,
		"Property":   r.Property,
	} {
		if p != nil {
			out[name] = *p
		}
	}
	return out
}

// PredictionResponse is returned by POST /predict on success.
type PredictionResponse struct {
	// Scalar model output.
	// example: 0.73
	Prediction float64 `json:"prediction" example:"0.73"`
}

// StatusResponse is the liveness payload for GET / and GET /health.
type StatusResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown category for field "Occupation": "Retired"
	Detail string `json:"detail" example:"unknown category for field \"Occupation\": \"Retired\""`
}
