package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nyxieeee/aa2000-website/internal/domain"
)

// --- Suppliers ---

// ListSuppliers fetches all suppliers.
func (b *Backend) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	if err := b.do(ctx, http.MethodGet, "/api/suppliers", nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetSupplier fetches one supplier by id.
func (b *Backend) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := b.do(ctx, http.MethodGet, fmt.Sprintf("/api/suppliers/%d", id), nil, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CreateSupplier creates a supplier.
func (b *Backend) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	var created domain.Supplier
	if err := b.do(ctx, http.MethodPost, "/api/suppliers", supplier, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSupplier updates a supplier.
func (b *Backend) UpdateSupplier(ctx context.Context, id int64, supplier domain.Supplier) (*domain.Supplier, error) {
	var updated domain.Supplier
	if err := b.do(ctx, http.MethodPut, fmt.Sprintf("/api/suppliers/%d", id), supplier, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSupplier removes a supplier.
func (b *Backend) DeleteSupplier(ctx context.Context, id int64) error {
	return b.do(ctx, http.MethodDelete, fmt.Sprintf("/api/suppliers/%d", id), nil, nil)
}

// --- Customers ---

// ListCustomers fetches all customers.
func (b *Backend) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := b.do(ctx, http.MethodGet, "/api/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer creates a customer.
func (b *Backend) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	var created domain.Customer
	if err := b.do(ctx, http.MethodPost, "/api/customers", customer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCustomer updates a customer.
func (b *Backend) UpdateCustomer(ctx context.Context, id int64, customer domain.Customer) (*domain.Customer, error) {
	var updated domain.Customer
	if err := b.do(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d", id), customer, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCustomer removes a customer.
func (b *Backend) DeleteCustomer(ctx context.Context, id int64) error {
	return b.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil)
}

// --- Admin login ---

// LoginResult is the back office response to a successful login.
type LoginResult struct {
	OK       bool   `json:"ok"`
	Username string `json:"username"`
}

// Login checks admin credentials against the back office. Invalid
// credentials surface as an unauthorized error with the backend's message.
func (b *Backend) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var result LoginResult
	if err := b.do(ctx, http.MethodPost, "/api/auth/login", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
