package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nyxieeee/aa2000-website/internal/event"
	"github.com/nyxieeee/aa2000-website/internal/storage"
)

// Sessions owns the ledgers of all active sessions, keyed by session id.
// A ledger is created on first use and restored from the store; sessions
// that never come back simply stay idle until the process restarts, the
// store keeps their durable copy.
type Sessions struct {
	store    storage.Store
	producer *event.Producer
	logger   *slog.Logger

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewSessions creates the session manager.
func NewSessions(store storage.Store, producer *event.Producer, logger *slog.Logger) *Sessions {
	return &Sessions{
		store:    store,
		producer: producer,
		logger:   logger,
		ledgers:  make(map[string]*Ledger),
	}
}

// Ledger returns the ledger for a session, creating and restoring it on
// first access.
func (s *Sessions) Ledger(ctx context.Context, sessionID string) *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.ledgers[sessionID]; ok {
		return l
	}

	l := newLedger(ctx, sessionID, s.store, s.producer, s.logger)
	s.ledgers[sessionID] = l
	return l
}
