package inference

import (
	"errors"
	"fmt"
)

// InferenceError wraps any failure of an engine invocation (shape mismatch,
// missing output, engine-internal error).
type InferenceError struct {
	Cause error
}

func (e InferenceError) Error() string { return "inference failed: " + e.Cause.Error() }

func (e InferenceError) Unwrap() error { return e.Cause }

// IsInferenceFailure reports whether err is (or wraps) an InferenceError.
func IsInferenceFailure(err error) bool {
	var e InferenceError
	return errors.As(err, &e)
}

// StartupError is returned when the model artifact cannot be loaded. It is
// fatal for the process.
type StartupError struct {
	Op   string
	Path string
	Err  error
}

func (e StartupError) Error() string {
	return fmt.Sprintf("model %s %s: %v", e.Op, e.Path, e.Err)
}

func (e StartupError) Unwrap() error { return e.Err }

// IsStartupFailure reports whether err is (or wraps) a StartupError.
func IsStartupFailure(err error) bool {
	var e StartupError
	return errors.As(err, &e)
}
