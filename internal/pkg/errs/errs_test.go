package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorKnownCode(t *testing.T) {
	err := NewError(ErrUsernameTaken)
	require.NotNil(t, err)

	assert.Equal(t, ErrUsernameTaken, err.Code)
	assert.Equal(t, "Username is in use!", err.Message)
	// Codes without an explicit status default to 200; the business code in
	// the body carries the failure.
	assert.Equal(t, http.StatusOK, err.Status)
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(424242)
	require.NotNil(t, err)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestCustomErrorError(t *testing.T) {
	err := NewError(ErrIdentityRequired)

	assert.Contains(t, err.Error(), "Username and room are required!")
	assert.Contains(t, err.Error(), "2001")
}
