// Package storage provides the durable key-value mirror used by the cart
// and the catalog fallback. Persistence is best-effort: Load and Save never
// fail from the caller's point of view, they degrade to defaults instead.
package storage

import "context"

// Store is a best-effort JSON key-value store.
//
// Load decodes the stored value into dst and reports whether it succeeded.
// On a missing key, a backend error, or a malformed stored value it returns
// false; the caller keeps its zero/default value and discards dst.
//
// Save encodes v and writes it under key. Write failures are swallowed;
// durable storage is a mirror, never load-bearing within a session.
type Store interface {
	Load(ctx context.Context, key string, dst any) bool
	Save(ctx context.Context, key string, v any)
}

// Storage keys used by the storefront. Each key is owned by exactly one
// component; there are no cross-component writers.
const (
	// KeyProducts holds the catalog fallback snapshot.
	KeyProducts = "aa2000:products"

	// KeyCartPrefix prefixes the per-session cart item list key.
	KeyCartPrefix = "aa2000:cart:"

	// keyDiscountSuffix is appended to a cart key for the discount record.
	keyDiscountSuffix = ":discount"
)

// CartKey returns the storage key for a session's cart item list.
func CartKey(sessionID string) string {
	return KeyCartPrefix + sessionID
}

// DiscountKey returns the storage key for a session's discount state.
// Items and discount state are stored and loaded independently.
func DiscountKey(sessionID string) string {
	return CartKey(sessionID) + keyDiscountSuffix
}
