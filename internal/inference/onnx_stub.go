//go:build !onnx

package inference

import "errors"

// This file is compiled when the 'onnx' build tag is NOT set, keeping default
// builds and CI CGO-free. The real backend lives in onnx.go (tagged 'onnx').

var errONNXNotBuilt = errors.New("onnx support not built (missing 'onnx' build tag)")

func openONNX(path string, opts OpenOptions) ([]Engine, error) {
	return nil, errONNXNotBuilt
}
