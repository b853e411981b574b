package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/catalog"
	"github.com/nyxieeee/aa2000-website/internal/checkout"
	"github.com/nyxieeee/aa2000-website/internal/client"
	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/internal/event"
	"github.com/nyxieeee/aa2000-website/internal/storage"
	"github.com/nyxieeee/aa2000-website/pkg/health"
	"github.com/nyxieeee/aa2000-website/pkg/httpclient"
	pkgkafka "github.com/nyxieeee/aa2000-website/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

// backOfficeStub serves the subset of the back office API the router needs.
func backOfficeStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/suppliers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Supplier{{ID: 1, Name: "Hikvision PH"}})
	})
	mux.HandleFunc("GET /api/products/unassigned", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Product{
			{ID: 3, Name: "Siren", Category: domain.CategoryBurglarAlarm, Price: 30000},
		})
	})
	mux.HandleFunc("GET /api/suppliers/1/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Product{
			{ID: 1, Name: "Dome Camera", Category: domain.CategoryCCTV, Price: 100000, InstallationPrice: 25000},
		})
	})
	mux.HandleFunc("PUT /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch domain.ProductPatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		p := domain.Product{ID: 1, Name: "Dome Camera", Category: domain.CategoryCCTV, Price: 100000, InstallationPrice: 25000}
		patch.Apply(&p)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var payload domain.OrderPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Order{
			ID: 42, Total: payload.Total, Status: domain.OrderStatusPending,
		})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "username": in.Username})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := newTestLogger()

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	store := storage.NewRedisStore(redisClient, 0, logger)

	backOffice := backOfficeStub(t)
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	backend := client.NewBackend(httpclient.New(cfg), backOffice.URL, logger)

	producer := newTestProducer()
	cache := catalog.New(backend, store, producer, logger)
	cache.Initialize(context.Background())

	sessions := cart.NewSessions(store, producer, logger)
	checkoutSvc := checkout.NewService(sessions, backend, producer, logger, 20*time.Millisecond)

	return NewRouter(cache, sessions, checkoutSvc, backend, health.NewHandler(), logger)
}

func doRequest(t *testing.T, router http.Handler, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func validCheckoutBody() map[string]string {
	return map[string]string{
		"fullName":   "Juan dela Cruz",
		"email":      "juan@example.com",
		"phone":      "09171234567",
		"address":    "123 Rizal Avenue",
		"city":       "Manila",
		"zipCode":    "1000",
		"cardNumber": "4111 1111 1111 1111",
		"expiryDate": "12/27",
		"cvv":        "123",
	}
}

// --- Catalog routes ---

func TestRouter_ListProducts(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	decodeData(t, rec, &products)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	require.NotNil(t, products[0].SupplierName)
	assert.Equal(t, "Hikvision PH", *products[0].SupplierName)
}

func TestRouter_GetProduct_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CatalogStatus(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/catalog/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status CatalogStatus
	decodeData(t, rec, &status)
	assert.Equal(t, catalog.ModeRemote, status.Mode)
	assert.False(t, status.Loading)
}

func TestRouter_CreateProduct_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", "", map[string]any{
		"name": "", "category": "", "price": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRouter_UpdateProduct_ReassignsSupplier(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/products/1", "", map[string]any{
		"supplierId":   2,
		"supplierName": "SecureTech Distribution",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Product
	decodeData(t, rec, &updated)
	require.NotNil(t, updated.SupplierID)
	assert.Equal(t, int64(2), *updated.SupplierID)
	require.NotNil(t, updated.SupplierName)
	assert.Equal(t, "SecureTech Distribution", *updated.SupplierName)
	// The rest of the product is untouched.
	assert.Equal(t, int64(100000), updated.Price)
}

// --- Cart routes ---

func TestRouter_CartRequiresSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Session-ID")
}

func TestRouter_CartFlow(t *testing.T) {
	router := newTestRouter(t)

	// Add the camera twice; same line, quantity 2.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap cart.Snapshot
	decodeData(t, rec, &snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, int64(200000), snap.Subtotal)

	// Set quantity, then remove.
	rec = doRequest(t, router, http.MethodPut, "/api/v1/cart/items/1", "sess-1",
		map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &snap)
	assert.Equal(t, 5, snap.Items[0].Quantity)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/1", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &snap)
	assert.Empty(t, snap.Items)
}

func TestRouter_AddInstallationVariant(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1, "withInstallation": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap cart.Snapshot
	decodeData(t, rec, &snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Dome Camera (with Installation)", snap.Items[0].Name)
	assert.Equal(t, int64(125000), snap.Items[0].Price)
}

func TestRouter_AddUnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ApplyDiscount(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/discount", "sess-1",
		map[string]string{"code": "aa2000"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result cart.DiscountResult
	decodeData(t, rec, &result)
	assert.True(t, result.Accepted)
	assert.Equal(t, cart.MsgCodeApplied, result.Message)
	assert.Equal(t, "AA2000", result.AppliedCode)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/discount", "sess-1",
		map[string]string{"code": "bogus"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &result)
	assert.False(t, result.Accepted)
	assert.Equal(t, cart.MsgCodeInvalid, result.Message)
}

// --- Checkout routes ---

func TestRouter_CheckoutFlow(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "sess-1", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order domain.Order
	decodeData(t, rec, &order)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/checkout/status", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status checkout.Status
	decodeData(t, rec, &status)
	assert.Equal(t, checkout.StatePlaced, status.State)
	assert.Equal(t, int64(42), status.OrderID)
}

func TestRouter_CheckoutValidation(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		map[string]any{"productId": 1})

	body := validCheckoutBody()
	body["email"] = "nope"
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "sess-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email")
}

func TestRouter_CheckoutEmptyCart(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "sess-1", validCheckoutBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

// --- Pass-through routes ---

func TestRouter_Login(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result client.LoginResult
	decodeData(t, rec, &result)
	assert.True(t, result.OK)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListSuppliers(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/suppliers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var suppliers []domain.Supplier
	decodeData(t, rec, &suppliers)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Hikvision PH", suppliers[0].Name)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SupplierProductsSearch(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/suppliers/%d/products", 1), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	decodeData(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Dome Camera", products[0].Name)
}
