// Package inference runs encoded feature vectors through a loaded model.
// It is structured into small files by concern:
//
//   - engine.go: Engine interface and Tensor type shared by all backends.
//   - adapter.go: Adapter, which converts vectors to engine precision, binds
//     the input name and extracts the configured output.
//   - pool.go: handle pool used for engines that are not safe for concurrent calls.
//   - errors.go: InferenceError and StartupError plus Is* helpers.
//   - load.go: Open, which picks a backend from the artifact extension.
//   - linear.go: pure-Go linear model read from a JSON or YAML artifact.
//   - onnx.go / onnx_stub.go: ONNX Runtime backend.
//
// Build tags and runtimes:
//
//   - ONNX Runtime: enabled with `-tags=onnx`. Requires the onnxruntime shared
//     library (model.onnx_library). Without the tag, opening a .onnx artifact
//     fails at start-up with a StartupError.
//
// Engines report whether they are safe for concurrent Run calls. Concurrent
// engines are called directly by every request; the others are checked out of
// a pool of handles, one request per handle at a time. A pool of size 1 is an
// exclusive lock around the single handle.
package inference
