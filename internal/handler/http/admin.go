package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nyxieeee/aa2000-website/internal/client"
	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/pkg/httputil"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// AdminHandler passes supplier, customer, order and login requests through
// to the back office. These endpoints have no local state; the back office
// owns the data and the error semantics.
type AdminHandler struct {
	backend *client.Backend
	logger  *slog.Logger
}

// NewAdminHandler creates a new back office pass-through handler.
func NewAdminHandler(backend *client.Backend, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		backend: backend,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SupplierRequest is the JSON request body for creating or updating a supplier.
type SupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Image         string `json:"image" validate:"omitempty,url"`
}

// CustomerRequest is the JSON request body for creating or updating a customer.
type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LoginRequest is the JSON request body for an admin login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Suppliers ---

// ListSuppliers handles GET /api/v1/suppliers
func (h *AdminHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.backend.ListSuppliers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suppliers})
}

// GetSupplier handles GET /api/v1/suppliers/{id}
func (h *AdminHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	supplier, err := h.backend.GetSupplier(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: supplier})
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *AdminHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.backend.CreateSupplier(r.Context(), supplierFromRequest(req))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// UpdateSupplier handles PUT /api/v1/suppliers/{id}
func (h *AdminHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req SupplierRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.backend.UpdateSupplier(r.Context(), id, supplierFromRequest(req))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{id}
func (h *AdminHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.backend.DeleteSupplier(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSupplierProducts handles GET /api/v1/suppliers/{id}/products
func (h *AdminHandler) ListSupplierProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	products, err := h.backend.ListProductsBySupplier(r.Context(), id, r.URL.Query().Get("search"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// --- Customers ---

// ListCustomers handles GET /api/v1/customers
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.backend.ListCustomers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customers})
}

// CreateCustomer handles POST /api/v1/customers
func (h *AdminHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.backend.CreateCustomer(r.Context(), customerFromRequest(req))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// UpdateCustomer handles PUT /api/v1/customers/{id}
func (h *AdminHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CustomerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.backend.UpdateCustomer(r.Context(), id, customerFromRequest(req))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// DeleteCustomer handles DELETE /api/v1/customers/{id}
func (h *AdminHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.backend.DeleteCustomer(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

// ListOrders handles GET /api/v1/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.backend.ListOrders(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.backend.GetOrder(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// --- Login ---

// Login handles POST /api/v1/auth/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.backend.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func supplierFromRequest(req SupplierRequest) domain.Supplier {
	return domain.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Image:         req.Image,
	}
}

func customerFromRequest(req CustomerRequest) domain.Customer {
	return domain.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
}
