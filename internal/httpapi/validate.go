package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// schemaValidator checks request structs against their `validate` tags and
// reports fields by their JSON name.
var schemaValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// schemaError is a structural problem with the request body (HTTP 422).
type schemaError struct{ msg string }

func (e schemaError) Error() string { return e.msg }

// decodeAndValidate reads one JSON document from r into dst and validates it.
// Returns *http.MaxBytesError for oversized bodies and schemaError for
// anything else the caller must fix.
func decodeAndValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return tooBig
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return schemaError{msg: fmt.Sprintf("field %s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)}
		}
		return schemaError{msg: "invalid JSON body"}
	}
	if err := schemaValidator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return schemaError{msg: err.Error()}
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("field %s: failed %q check", fe.Field(), fe.Tag()))
		}
		return schemaError{msg: strings.Join(msgs, "; ")}
	}
	return nil
}
