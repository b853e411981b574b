package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nyxieeee/aa2000-website/internal/catalog"
	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/pkg/httputil"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// CatalogHandler handles HTTP requests for product catalog endpoints.
type CatalogHandler struct {
	cache  *catalog.Cache
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cache *catalog.Cache, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		cache:  cache,
		logger: logger,
	}
}

// --- Request DTOs ---

// ProductRequest is the JSON request body for creating a product.
type ProductRequest struct {
	Name              string            `json:"name" validate:"required"`
	Category          string            `json:"category" validate:"required"`
	Price             int64             `json:"price" validate:"gte=0"`
	Description       string            `json:"description" validate:"required"`
	FullDescription   string            `json:"fullDescription" validate:"required"`
	Image             string            `json:"image" validate:"omitempty,url"`
	Specs             map[string]string `json:"specs"`
	Inclusions        []string          `json:"inclusions"`
	InstallationPrice int64             `json:"installationPrice" validate:"gte=0"`
}

// CatalogStatus reports the catalog's serving state.
type CatalogStatus struct {
	Mode    catalog.Mode `json:"mode"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cache.Products()})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, found := h.cache.FindByID(id)
	if !found {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.cache.Add(r.Context(), domain.Product{
		Name:              req.Name,
		Category:          req.Category,
		Price:             req.Price,
		Description:       req.Description,
		FullDescription:   req.FullDescription,
		Image:             req.Image,
		Specs:             req.Specs,
		Inclusions:        req.Inclusions,
		InstallationPrice: req.InstallationPrice,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var patch domain.ProductPatch
	if err := validator.DecodeAndValidate(r, &patch); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if patch.Price != nil && *patch.Price < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "price must be 0 or greater"},
		})
		return
	}
	if patch.InstallationPrice != nil && *patch.InstallationPrice < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "installation price must be 0 or greater"},
		})
		return
	}

	updated, err := h.cache.Update(r.Context(), id, patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if updated == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.cache.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/v1/catalog/status
func (h *CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := CatalogStatus{
		Mode:    h.cache.Mode(),
		Loading: h.cache.Loading(),
	}
	if err := h.cache.Err(); err != nil {
		status.Error = err.Error()
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: status})
}

// Refresh handles POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.cache.Refresh(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CatalogStatus{
		Mode:    h.cache.Mode(),
		Loading: h.cache.Loading(),
	}})
}
