package cart

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nyxieeee/aa2000-website/internal/domain"
)

// The promo rule set is closed: one code, one rate.
const (
	promoCode = "AA2000"
	promoRate = 0.20
)

// User-facing promo messages.
const (
	MsgCodeApplied = "Code AA2000 applied successfully!"
	MsgCodeInvalid = "Invalid promo code."
)

// DiscountResult is the outcome of a promo code attempt.
type DiscountResult struct {
	Accepted    bool    `json:"accepted"`
	Message     string  `json:"message"`
	Discount    float64 `json:"discount"`
	AppliedCode string  `json:"appliedCode,omitempty"`
}

// ApplyCode evaluates a promo code against the ledger. The match is
// case-insensitive on the literal input; an accepted code is stored
// uppercased. Any other input is rejected and clears a previously applied
// discount.
func (l *Ledger) ApplyCode(ctx context.Context, code string) DiscountResult {
	accepted := strings.EqualFold(code, promoCode)

	l.mu.Lock()
	if accepted {
		l.discount = domain.DiscountState{Rate: promoRate, Code: promoCode}
	} else {
		l.discount = domain.DiscountState{}
	}
	l.gen++
	l.persistLocked(ctx)
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.publishUpdated(ctx, snap)

	result := DiscountResult{
		Accepted:    accepted,
		Discount:    snap.Discount,
		AppliedCode: snap.AppliedCode,
	}
	if accepted {
		result.Message = MsgCodeApplied
		l.logger.InfoContext(ctx, "promo code applied",
			slog.String("session_id", l.sessionID),
			slog.String("code", promoCode),
		)
	} else {
		result.Message = MsgCodeInvalid
	}

	return result
}
