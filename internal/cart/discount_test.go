package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCode_Accepted(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())

	for _, code := range []string{"aa2000", "AA2000", "Aa2000"} {
		result := ledger.ApplyCode(ctx, code)

		assert.True(t, result.Accepted, "code %q must be accepted", code)
		assert.Equal(t, MsgCodeApplied, result.Message)
		assert.Equal(t, 0.20, result.Discount)
		assert.Equal(t, "AA2000", result.AppliedCode)
	}
}

func TestApplyCode_Rejected(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")

	// The comparison is on the literal input: padding is not stripped.
	for _, code := range []string{"", "aa2001", "SAVE20", "aa 2000", "  aa2000  "} {
		result := ledger.ApplyCode(ctx, code)

		assert.False(t, result.Accepted, "code %q must be rejected", code)
		assert.Equal(t, MsgCodeInvalid, result.Message)
		assert.Zero(t, result.Discount)
		assert.Empty(t, result.AppliedCode)
	}
}

func TestApplyCode_RejectionClearsPriorDiscount(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())
	ledger.ApplyCode(ctx, "aa2000")

	result := ledger.ApplyCode(ctx, "bogus")

	assert.False(t, result.Accepted)
	snap := ledger.Snapshot()
	assert.Zero(t, snap.Discount)
	assert.Empty(t, snap.AppliedCode)
	assert.Equal(t, snap.Subtotal, snap.Total)
}

func TestApplyCode_DiscountSurvivesItemMutations(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())
	ledger.ApplyCode(ctx, "aa2000")

	snap := ledger.AddItem(ctx, sensor())

	assert.Equal(t, 0.20, snap.Discount)
	assert.Equal(t, int64(150000), snap.Subtotal)
	assert.Equal(t, int64(30000), snap.DiscountAmount)
	assert.Equal(t, int64(120000), snap.Total)
}
