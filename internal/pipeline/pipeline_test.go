package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorFormatAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &PipelineError{Stage: "publish", Message: "failed to publish episode", Err: cause}

	assert.Equal(t, "[publish] failed to publish episode: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &PipelineError{Stage: "script", Message: "failed to write script"}
	assert.Equal(t, "[script] failed to write script", bare.Error())
}

func TestEstimateMinutes(t *testing.T) {
	assert.Equal(t, 1, estimateMinutes(0))
	assert.Equal(t, 1, estimateMinutes(120))
	assert.Equal(t, 22, estimateMinutes(3800))
	assert.Equal(t, 55, estimateMinutes(9500))
}