package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/catalog"
	"github.com/nyxieeee/aa2000-website/pkg/httputil"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	sessions *cart.Sessions
	cache    *catalog.Cache
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(sessions *cart.Sessions, cache *catalog.Cache, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		cache:    cache,
		logger:   logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
// The product snapshot comes from the catalog; the client only names it.
type AddItemRequest struct {
	ProductID        int64 `json:"productId" validate:"required,gte=1"`
	WithInstallation bool  `json:"withInstallation"`
}

// SetQuantityRequest is the JSON request body for setting a line's quantity.
// Quantities below one are ignored by the ledger, not rejected here.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyDiscountRequest is the JSON request body for applying a promo code.
type ApplyDiscountRequest struct {
	Code string `json:"code"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	snap := h.sessions.Ledger(r.Context(), sid).Snapshot()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, found := h.cache.FindByID(req.ProductID)
	if !found {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product not found"},
		})
		return
	}
	if req.WithInstallation {
		product = product.WithInstallation()
	}

	snap := h.sessions.Ledger(r.Context(), sid).AddItem(r.Context(), product)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// SetQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	snap := h.sessions.Ledger(r.Context(), sid).SetQuantity(r.Context(), productID, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	snap := h.sessions.Ledger(r.Context(), sid).RemoveItem(r.Context(), productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	snap := h.sessions.Ledger(r.Context(), sid).Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// ApplyDiscount handles POST /api/v1/cart/discount
func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	var req ApplyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result := h.sessions.Ledger(r.Context(), sid).ApplyCode(r.Context(), req.Code)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func writeMissingSession(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
	})
}
