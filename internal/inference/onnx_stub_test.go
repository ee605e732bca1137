//go:build !onnx

package inference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ONNXWithoutTagFailsAtStartup(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "model.onnx", "not really onnx")
	_, err := Open(p, OpenOptions{})
	require.Error(t, err)
	assert.True(t, IsStartupFailure(err))
	assert.True(t, errors.Is(err, errONNXNotBuilt))
}
