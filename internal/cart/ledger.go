// Package cart implements the per-session cart ledger and the promo
// discount engine. The ledger in memory is the state of record; the
// key-value store is a best-effort mirror written after every mutation.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/internal/event"
	"github.com/nyxieeee/aa2000-website/internal/storage"
)

// Snapshot is a read-only view of a ledger: its lines, discount state and
// derived totals, recomputed at the moment it is taken.
type Snapshot struct {
	Items          domain.CartItems `json:"items"`
	Discount       float64          `json:"discount"`
	AppliedCode    string           `json:"appliedCode,omitempty"`
	TotalItems     int              `json:"totalItems"`
	Subtotal       int64            `json:"subtotal"`
	DiscountAmount int64            `json:"discountAmount"`
	Total          int64            `json:"total"`
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// Ledger is one session's cart: an ordered line list plus the applied
// discount. A mutex serializes concurrent handlers for the same session.
type Ledger struct {
	sessionID string
	store     storage.Store
	producer  *event.Producer
	logger    *slog.Logger

	mu       sync.Mutex
	items    domain.CartItems
	discount domain.DiscountState
	gen      uint64
}

func newLedger(ctx context.Context, sessionID string, store storage.Store, producer *event.Producer, logger *slog.Logger) *Ledger {
	l := &Ledger{
		sessionID: sessionID,
		store:     store,
		producer:  producer,
		logger:    logger,
		items:     domain.CartItems{},
	}

	// Items and discount state restore independently; a corrupt value for
	// one leaves the other intact.
	var items domain.CartItems
	if store.Load(ctx, storage.CartKey(sessionID), &items) {
		l.items = items
	}
	var discount domain.DiscountState
	if store.Load(ctx, storage.DiscountKey(sessionID), &discount) {
		l.discount = discount
	}

	return l
}

// Snapshot returns the current ledger view with derived totals.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() Snapshot {
	items := make(domain.CartItems, len(l.items))
	copy(items, l.items)

	subtotal := items.Subtotal()
	discountAmount := domain.DiscountAmount(subtotal, l.discount.Rate)

	return Snapshot{
		Items:          items,
		Discount:       l.discount.Rate,
		AppliedCode:    l.discount.Code,
		TotalItems:     items.TotalItems(),
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
	}
}

// Generation returns a counter that advances on every mutation. Callers
// that defer work can use it to detect that the ledger changed underneath.
func (l *Ledger) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// AddItem adds a product snapshot to the ledger. When a line with the same
// product id already exists its quantity goes up by exactly one and the
// stored snapshot is kept; the installation variant shares the base
// product's id and therefore its line.
func (l *Ledger) AddItem(ctx context.Context, product domain.Product) Snapshot {
	l.mu.Lock()
	if i := l.items.FindIndex(product.ID); i >= 0 {
		l.items[i].Quantity++
	} else {
		l.items = append(l.items, domain.CartItem{Product: product, Quantity: 1})
	}
	l.gen++
	l.persistLocked(ctx)
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.publishUpdated(ctx, snap)

	l.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", l.sessionID),
		slog.Int64("product_id", product.ID),
		slog.Int("total_items", snap.TotalItems),
	)

	return snap
}

// SetQuantity sets the quantity of the line with the given product id.
// Quantities below one are ignored, as are ids with no matching line.
func (l *Ledger) SetQuantity(ctx context.Context, productID int64, quantity int) Snapshot {
	l.mu.Lock()
	if quantity >= 1 {
		if i := l.items.FindIndex(productID); i >= 0 && l.items[i].Quantity != quantity {
			l.items[i].Quantity = quantity
			l.gen++
			l.persistLocked(ctx)
		}
	}
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.publishUpdated(ctx, snap)

	return snap
}

// RemoveItem removes the line with the given product id. Removing an id
// that is not in the ledger changes nothing.
func (l *Ledger) RemoveItem(ctx context.Context, productID int64) Snapshot {
	l.mu.Lock()
	if i := l.items.FindIndex(productID); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
		l.gen++
		l.persistLocked(ctx)
	}
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.publishUpdated(ctx, snap)

	l.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", l.sessionID),
		slog.Int64("product_id", productID),
	)

	return snap
}

// Clear resets the ledger: no lines, no discount.
func (l *Ledger) Clear(ctx context.Context) Snapshot {
	l.mu.Lock()
	snap := l.clearLocked(ctx)
	l.mu.Unlock()

	if err := l.producer.PublishCartCleared(ctx, l.sessionID); err != nil {
		l.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
	}

	return snap
}

// ClearIfGeneration clears the ledger only if no mutation happened since
// the given generation was observed. It reports whether the clear ran.
func (l *Ledger) ClearIfGeneration(ctx context.Context, gen uint64) bool {
	l.mu.Lock()
	if l.gen != gen {
		l.mu.Unlock()
		return false
	}
	l.clearLocked(ctx)
	l.mu.Unlock()

	if err := l.producer.PublishCartCleared(ctx, l.sessionID); err != nil {
		l.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
	}

	return true
}

func (l *Ledger) clearLocked(ctx context.Context) Snapshot {
	l.items = domain.CartItems{}
	l.discount = domain.DiscountState{}
	l.gen++
	l.persistLocked(ctx)
	return l.snapshotLocked()
}

// persistLocked mirrors items and discount state to the store under their
// two keys. Callers hold l.mu.
func (l *Ledger) persistLocked(ctx context.Context) {
	l.store.Save(ctx, storage.CartKey(l.sessionID), l.items)
	l.store.Save(ctx, storage.DiscountKey(l.sessionID), l.discount)
}

func (l *Ledger) publishUpdated(ctx context.Context, snap Snapshot) {
	if err := l.producer.PublishCartUpdated(ctx, l.sessionID, snap.Items, snap.Discount); err != nil {
		l.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
	}
}
