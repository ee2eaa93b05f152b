package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", ValidationError("bad input"), http.StatusBadRequest},
		{"not found", NotFoundError("missing"), http.StatusNotFound},
		{"conflict", ConflictError("duplicate"), http.StatusConflict},
		{"unavailable", UnavailableError("at capacity"), http.StatusServiceUnavailable},
		{"internal", InternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := InternalError("wrapper", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "root cause")
}

func TestError_WithContext(t *testing.T) {
	err := ValidationError("bad display id").WithContext("display_id", "d1")
	assert.Equal(t, "d1", err.Context["display_id"])
}

func TestAsStructuredError(t *testing.T) {
	structured := NotFoundError("display not found")
	assert.Same(t, structured, AsStructuredError(structured))

	plain := stderrors.New("plain failure")
	wrapped := AsStructuredError(plain)
	require.NotNil(t, wrapped)
	assert.Equal(t, TypeInternal, wrapped.Type)
	assert.True(t, stderrors.Is(wrapped, plain))

	assert.Nil(t, AsStructuredError(nil))
}

func TestToResponse(t *testing.T) {
	err := ValidationError("bad input").WithContext("field", "name")
	resp := err.ToResponse()

	assert.Equal(t, "bad input", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "name", resp.Context["field"])
}
