package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nyxieeee/aa2000-website/pkg/errors"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, 201, Response{Data: map[string]string{"ok": "yes"}})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/products/42", nil)

	WriteError(rec, req, apperrors.NotFound("product", "42"), testLogger())

	assert.Equal(t, 404, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	WriteError(rec, req, apperrors.Wrap(apperrors.ErrNotFound, "load product"), testLogger())

	assert.Equal(t, 404, rec.Code)
}

func TestWriteError_UnknownIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	WriteError(rec, req, errors.New("boom"), testLogger())

	assert.Equal(t, 500, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

func TestWriteValidationError_Fields(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
	}
	err := validator.Validate(form{Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, 400, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Email")
}

func TestParseID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "42")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	rec = httptest.NewRecorder()
	_, ok = ParseID(rec, "abc")
	assert.False(t, ok)
	assert.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	_, ok = ParseID(rec, "0")
	assert.False(t, ok)
}
