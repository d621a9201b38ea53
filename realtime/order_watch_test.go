package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/sepatu-storefront/status"
)

func TestOrderWatch_SubmissionDiscoveredLater(t *testing.T) {
	w := NewOrderWatch("7", 10, map[string]any{"id": float64(7), "status": "submitted"})
	assert.Empty(t, w.SubmissionID())
	assert.Equal(t, status.Tertunda, w.Display())

	applied, newSub := w.Apply(Change{Table: TableOrders, RecordID: "7", Version: 11,
		Row: map[string]any{"checkout_submission_id": "sub-9"}})
	assert.True(t, applied)
	assert.Equal(t, "sub-9", newSub)

	applied, _ = w.Apply(Change{Table: TableSubmissions, RecordID: "sub-9", Version: 12,
		Row: map[string]any{"status": "failed"}})
	assert.True(t, applied)
	assert.Equal(t, status.Gagal, w.Display())

	path, ok := w.Redirect()
	assert.True(t, ok)
	assert.Equal(t, "/payment/failed?order_id=7", path)

	// redirect hanya diputuskan sekali
	_, ok = w.Redirect()
	assert.False(t, ok)
}

func TestOrderWatch_OrderStatusWins(t *testing.T) {
	sub := "sub-1"
	w := NewOrderWatch("3", 1, map[string]any{"status": "submitted", "checkout_submission_id": sub})
	w.SetSubmission(sub, 1, map[string]any{"status": "failed"})
	assert.Equal(t, status.Gagal, w.Display())

	w.Apply(Change{Table: TableOrders, RecordID: "3", Version: 2, Row: map[string]any{"status": "paid"}})
	assert.Equal(t, status.Dibayar, w.Display())
}

func TestOrderWatch_IgnoresStaleAndForeignChanges(t *testing.T) {
	w := NewOrderWatch("3", 5, map[string]any{"status": "paid"})

	applied, _ := w.Apply(Change{Table: TableOrders, RecordID: "3", Version: 4, Row: map[string]any{"status": "submitted"}})
	assert.False(t, applied)

	applied, _ = w.Apply(Change{Table: TableOrders, RecordID: "4", Version: 9, Row: map[string]any{"status": "failed"}})
	assert.False(t, applied)

	applied, _ = w.Apply(Change{Table: TableSubmissions, RecordID: "x", Version: 9, Row: map[string]any{"status": "failed"}})
	assert.False(t, applied)

	assert.Equal(t, status.Dibayar, w.Display())
}

func TestOrderWatch_PendingNoRedirect(t *testing.T) {
	w := NewOrderWatch("1", 1, map[string]any{"status": "cancelled"})
	_, ok := w.Redirect()
	assert.False(t, ok)
}
