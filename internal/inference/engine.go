package inference

// Tensor is a dense float32 tensor.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Engine is a loaded model. Implementations must not mutate their model
// state from Run.
type Engine interface {
	// Inputs lists the declared input tensor names in model order.
	Inputs() []string
	// Outputs lists the declared output tensor names in model order.
	Outputs() []string
	// Run evaluates the model. inputs is keyed by input name.
	Run(inputs map[string]Tensor) (map[string]Tensor, error)
	// Concurrent reports whether Run may be called from several goroutines at once.
	Concurrent() bool
	// Close releases the resources held by the engine.
	Close() error
}

// inputWidther is implemented by engines that know how many features a
// [1, n] input takes. Zero means unknown.
type inputWidther interface {
	InputWidth(name string) int
}
