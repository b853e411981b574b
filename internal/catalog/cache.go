// Package catalog keeps the product list the storefront serves. It prefers
// the back office API and falls back to the last snapshot in the key-value
// store when the backend cannot be reached; the active source is tracked as
// an explicit mode so reads and writes never mix the two.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/internal/event"
	"github.com/nyxieeee/aa2000-website/internal/storage"
)

// Mode identifies the catalog's active source of truth.
type Mode string

const (
	// ModeRemote serves and writes through the back office API.
	ModeRemote Mode = "remote"
	// ModeLocal serves the stored snapshot and applies writes to it only.
	ModeLocal Mode = "local"
)

var (
	catalogMode = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_mode",
		Help: "Active catalog source (0=remote, 1=local fallback)",
	})
	catalogRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_failures_total",
		Help: "Number of catalog refresh attempts that fell back to the local snapshot",
	})
)

// Remote is the slice of the back office client the catalog needs.
type Remote interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Cache is the dual-mode product catalog.
type Cache struct {
	remote   Remote
	store    storage.Store
	producer *event.Producer
	logger   *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	mode     Mode
	loading  bool
	err      error
}

// New creates a catalog cache. It starts empty in local mode; call
// Initialize to perform the first fetch.
func New(remote Remote, store storage.Store, producer *event.Producer, logger *slog.Logger) *Cache {
	return &Cache{
		remote:   remote,
		store:    store,
		producer: producer,
		logger:   logger,
		products: []domain.Product{},
		mode:     ModeLocal,
	}
}

// Initialize performs the first catalog fetch, toggling the loading flag
// around it.
func (c *Cache) Initialize(ctx context.Context) {
	c.Refresh(ctx)
}

// Refresh re-fetches the catalog from the backend, falling back to the
// stored snapshot on failure. The loading flag is set for the duration.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	c.refresh(ctx)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// RefreshSilent re-fetches the catalog without touching the loading flag,
// so periodic background syncs never flicker the serving state.
func (c *Cache) RefreshSilent(ctx context.Context) {
	c.refresh(ctx)
}

func (c *Cache) refresh(ctx context.Context) {
	products, err := c.remote.ListProducts(ctx)
	if err != nil {
		c.degrade(ctx, err)
		return
	}

	c.mu.Lock()
	c.products = products
	c.mode = ModeRemote
	c.err = nil
	c.mu.Unlock()

	catalogMode.Set(0)
}

// degrade switches to the local snapshot after a failed remote read.
func (c *Cache) degrade(ctx context.Context, cause error) {
	catalogRefreshFailures.Inc()

	snapshot := []domain.Product{}
	c.store.Load(ctx, storage.KeyProducts, &snapshot)
	for i := range snapshot {
		snapshot[i].Normalize()
	}

	c.mu.Lock()
	wasRemote := c.mode == ModeRemote
	c.products = snapshot
	c.mode = ModeLocal
	c.err = cause
	c.mu.Unlock()

	catalogMode.Set(1)

	c.logger.WarnContext(ctx, "catalog fell back to local snapshot",
		slog.Int("product_count", len(snapshot)),
		slog.String("error", cause.Error()),
	)

	if wasRemote {
		if err := c.producer.PublishCatalogFallback(ctx, cause.Error(), len(snapshot)); err != nil {
			c.logger.ErrorContext(ctx, "failed to publish catalog.fallback event",
				slog.String("error", err.Error()),
			)
		}
	}
}

// Run refreshes the catalog silently at the given interval until the
// context is cancelled.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RefreshSilent(ctx)
		}
	}
}

// Products returns a copy of the current product list.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	return products
}

// FindByID returns the product with the given id from the current list.
func (c *Cache) FindByID(id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Mode returns the active source mode.
func (c *Cache) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Loading reports whether a foreground refresh is in progress.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error of the last failed refresh, nil after a success.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Add creates a product. In remote mode the backend assigns the id and its
// copy is cached; a backend failure leaves the cache unchanged. In local
// mode the id is the highest known id plus one (1 for an empty list) and
// the snapshot is written through.
func (c *Cache) Add(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if c.Mode() == ModeRemote {
		created, err := c.remote.CreateProduct(ctx, product)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.products = append(c.products, *created)
		// The mode may have flipped during the backend call; a degrade
		// between the check and this lock must not lose the write-through.
		if c.mode == ModeLocal {
			c.persistLocked(ctx)
		}
		c.mu.Unlock()

		return created, nil
	}

	product.Normalize()

	c.mu.Lock()
	var maxID int64
	for _, p := range c.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	product.ID = maxID + 1
	c.products = append(c.products, product)
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "product added to local catalog",
		slog.Int64("product_id", product.ID),
	)

	return &product, nil
}

// Update applies a partial patch to a product. In remote mode the backend's
// updated copy replaces the cached one; a backend failure leaves the cache
// unchanged. In local mode the patch merges in place and an unknown id
// changes nothing. The returned product is nil when no cached line matched.
func (c *Cache) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if c.Mode() == ModeRemote {
		updated, err := c.remote.UpdateProduct(ctx, id, patch)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		for i := range c.products {
			if c.products[i].ID == id {
				c.products[i] = *updated
				break
			}
		}
		// Same race as Add: write through when a concurrent degrade
		// switched the cache to local mode mid-call.
		if c.mode == ModeLocal {
			c.persistLocked(ctx)
		}
		c.mu.Unlock()

		return updated, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.products {
		if c.products[i].ID == id {
			patch.Apply(&c.products[i])
			c.persistLocked(ctx)
			updated := c.products[i]
			return &updated, nil
		}
	}
	return nil, nil
}

// Remove deletes a product. Removing an unknown id changes nothing.
func (c *Cache) Remove(ctx context.Context, id int64) error {
	if c.Mode() == ModeRemote {
		if err := c.remote.DeleteProduct(ctx, id); err != nil {
			return err
		}
	}

	c.mu.Lock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			break
		}
	}
	if c.mode == ModeLocal {
		c.persistLocked(ctx)
	}
	c.mu.Unlock()

	return nil
}

// persistLocked writes the whole product list through to the store.
// Callers hold c.mu.
func (c *Cache) persistLocked(ctx context.Context) {
	c.store.Save(ctx, storage.KeyProducts, c.products)
}
