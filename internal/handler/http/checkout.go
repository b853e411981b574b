package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nyxieeee/aa2000-website/internal/checkout"
	"github.com/nyxieeee/aa2000-website/pkg/httputil"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	order, err := h.service.Submit(r.Context(), sid, form)
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// Status handles GET /api/v1/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Status(sid)})
}
