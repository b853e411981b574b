package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	e := NotFound("product", "42")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "product with id 42 not found")
}

func TestAppError_UnwrapsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", NotFound("order", "7"), ErrNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("nope"), ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", Conflict("busy"), ErrConflict, http.StatusConflict},
		{"unavailable", ServiceUnavailable("down"), ErrServiceUnavail, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("lookup product: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus_UnknownErrorIs500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	e := Internal(cause)
	require.ErrorIs(t, e, cause)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrap(ErrNotFound, "load catalog")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "load catalog")
}
