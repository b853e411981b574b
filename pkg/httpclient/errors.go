package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/nyxieeee/aa2000-website/pkg/errors"
)

// BackendErrorResponse mirrors the error body shapes returned by the back
// office API. Older endpoints use {"error": "..."}, newer ones
// {"message": "..."}; both are accepted.
type BackendErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError, preserving the backend's message when the
// body matches the known error shapes.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s: status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	var backend BackendErrorResponse
	if json.Unmarshal(bodyBytes, &backend) == nil {
		if msg := firstNonEmpty(backend.Error, backend.Message); msg != "" {
			return mapBackendError(resp.StatusCode, msg, operation)
		}
	}

	return mapBackendError(resp.StatusCode, strings.TrimSpace(string(bodyBytes)), operation)
}

// mapBackendError translates a backend HTTP status code into an AppError that
// preserves the error semantics: 404s stay "not found", 400s stay
// validation failures, everything 5xx degrades to a generic failure.
func mapBackendError(status int, message, operation string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	qualified := fmt.Sprintf("%s: %s", operation, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(operation, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s: backend error (%d): %s", operation, status, message)
	default:
		return &apperrors.AppError{
			Code:    "BACKEND_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
