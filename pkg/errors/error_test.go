package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := ErrNoPendingRequest.Wrap("channel=%s", "Resize")
	assert.True(t, stderrors.Is(err, ErrNoPendingRequest))
	assert.False(t, stderrors.Is(err, ErrConnectionClosed))
	assert.Equal(t, KErrNoPendingRequest, err.ErrNo())
	assert.Contains(t, err.Error(), "channel=Resize")

	wrapped := fmt.Errorf("reader: %w", ErrConnectionDesync)
	assert.True(t, stderrors.Is(wrapped, ErrConnectionDesync))
}
