// Package client talks to the AA2000 back office REST API. All calls go
// through the retrying HTTP client and its circuit breaker; error bodies
// are translated so a backend 404 stays a not-found and a connectivity
// failure stays a connectivity failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Backend is the back office API client.
type Backend struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewBackend creates a back office client rooted at baseURL.
func NewBackend(http HTTPDoer, baseURL string, logger *slog.Logger) *Backend {
	return &Backend{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// do executes one backend call. A non-nil in is marshalled as the JSON
// request body; a non-nil out receives the decoded response body. Non-2xx
// responses come back as translated errors.
func (b *Backend) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call back office %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, method+" "+path)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}

	return nil
}

// --- Products ---

// ListProducts fetches the full catalog the way the storefront sees it:
// each supplier's products stamped with the supplier's id and name, plus
// the products not assigned to any supplier, merged and sorted by id.
func (b *Backend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	suppliers, err := b.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers for catalog: %w", err)
	}

	combined, err := b.ListUnassignedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unassigned products: %w", err)
	}

	for _, s := range suppliers {
		products, err := b.ListProductsBySupplier(ctx, s.ID, "")
		if err != nil {
			return nil, fmt.Errorf("list products of supplier %d: %w", s.ID, err)
		}
		for i := range products {
			id, name := s.ID, s.Name
			products[i].SupplierID = &id
			products[i].SupplierName = &name
		}
		combined = append(combined, products...)
	}

	sort.Slice(combined, func(i, j int) bool { return combined[i].ID < combined[j].ID })

	for i := range combined {
		combined[i].Normalize()
	}

	return combined, nil
}

// ListUnassignedProducts fetches products without a supplier.
func (b *Backend) ListUnassignedProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := b.do(ctx, http.MethodGet, "/api/products/unassigned", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsBySupplier fetches one supplier's products, optionally
// filtered by a search term.
func (b *Backend) ListProductsBySupplier(ctx context.Context, supplierID int64, search string) ([]domain.Product, error) {
	path := fmt.Sprintf("/api/suppliers/%d/products", supplierID)
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var products []domain.Product
	if err := b.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (b *Backend) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := b.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	product.Normalize()
	return &product, nil
}

// CreateProduct creates a product and returns the backend's copy with its
// assigned id.
func (b *Backend) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := b.do(ctx, http.MethodPost, "/api/products", product, &created); err != nil {
		return nil, err
	}
	created.Normalize()

	b.logger.InfoContext(ctx, "product created in back office",
		slog.Int64("product_id", created.ID),
	)

	return &created, nil
}

// UpdateProduct applies a partial update and returns the updated product.
func (b *Backend) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	var updated domain.Product
	if err := b.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), patch, &updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	return &updated, nil
}

// DeleteProduct removes a product.
func (b *Backend) DeleteProduct(ctx context.Context, id int64) error {
	return b.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}
