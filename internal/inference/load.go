package inference

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OpenOptions controls how a model artifact is opened.
type OpenOptions struct {
	// PoolSize is the number of handles opened for engines that are not
	// concurrent. Values below 1 mean 1.
	PoolSize int
	// ONNXLibrary is the path of the onnxruntime shared library. Empty uses
	// the platform default search path.
	ONNXLibrary string
	// Output restricts ONNX sessions to a single output. Empty requests all
	// declared outputs.
	Output string
}

// Open loads the artifact at path and returns its handles. The backend is
// chosen by extension: .onnx for ONNX Runtime, .json/.yaml/.yml for the
// linear model. Every failure is a StartupError.
func Open(path string, opts OpenOptions) ([]Engine, error) {
	if strings.TrimSpace(path) == "" {
		return nil, StartupError{Op: "open", Path: path, Err: errors.New("empty model path")}
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, StartupError{Op: "stat", Path: path, Err: err}
	}
	if st.IsDir() {
		return nil, StartupError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}
	if opts.PoolSize < 1 {
		opts.PoolSize = 1
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".onnx":
		handles, err := openONNX(path, opts)
		if err != nil {
			return nil, StartupError{Op: "load", Path: path, Err: err}
		}
		return handles, nil
	case ".json", ".yaml", ".yml":
		eng, err := loadLinear(path)
		if err != nil {
			return nil, StartupError{Op: "load", Path: path, Err: err}
		}
		return []Engine{eng}, nil
	default:
		return nil, StartupError{Op: "open", Path: path, Err: fmt.Errorf("unsupported model extension: %s", ext)}
	}
}
