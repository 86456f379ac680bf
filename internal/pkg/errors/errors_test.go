package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, "failed to read usage record")

	assert.Equal(t, "failed to read usage record", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapAsMatchesSentinelAndCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := WrapAs(ErrPersistence, cause, "failed to record feature usage")

	assert.Equal(t, "failed to record feature usage", err.Error())
	assert.True(t, stderrors.Is(err, ErrPersistence))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrNotFound))
}
