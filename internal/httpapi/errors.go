package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"predictd/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, types.ErrorResponse{Detail: msg})
}

// writeJSON encodes v before the status line goes out, so a value that
// cannot be encoded is answered with a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		b, _ := json.Marshal(types.ErrorResponse{Detail: "encode response: " + err.Error()})
		_, _ = w.Write(append(b, '\n'))
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
