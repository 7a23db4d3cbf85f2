package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := SessionNotFound("-Users-sam-app", "abc")
	wrapped := fmt.Errorf("failed to load session: %w", err)

	assert.True(t, Is(err, ErrCodeNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, Is(wrapped, ErrCodeInvalidInput))
	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(cause, ErrCodeInternal, "failed to scan projects")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInternal, GetCode(err))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestDetails(t *testing.T) {
	err := InvalidInput("limit", 500, "must be at most 100")
	assert.Equal(t, "limit", err.Details["field"])
	assert.Equal(t, 500, err.Details["value"])
	assert.Contains(t, err.ToJSON(), `"INVALID_INPUT"`)
}
