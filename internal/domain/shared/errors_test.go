package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NotFound("Product not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "Product not found", err.Error())

	wrapped := fmt.Errorf("loading cart: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "NOT_FOUND", ErrorCode(wrapped))
}

func TestWrapDomainError_KeepsCause(t *testing.T) {
	cause := errors.New("db timeout")
	err := WrapDomainError("CONCURRENT_MODIFICATION", "cart changed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Empty(t, ErrorCode(cause))
}
