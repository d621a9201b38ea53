package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/sepatu-storefront/models"
)

func TestRowState_MergeKeepsPreviousOnNil(t *testing.T) {
	s := NewRowState(1, map[string]any{"status": "submitted", "shipping_resi": "JP123456"})

	ok := s.Merge(2, map[string]any{"status": "paid", "shipping_resi": nil})
	assert.True(t, ok)
	assert.Equal(t, "paid", s.String("status"))
	assert.Equal(t, "JP123456", s.String("shipping_resi"))
	assert.Equal(t, uint64(2), s.Version())
}

func TestRowState_RejectsOlderVersion(t *testing.T) {
	s := NewRowState(0, nil)
	assert.True(t, s.Merge(5, map[string]any{"status": "paid"}))
	assert.False(t, s.Merge(4, map[string]any{"status": "submitted"}))
	assert.Equal(t, "paid", s.String("status"))
	assert.Equal(t, uint64(5), s.Version())
}

func TestRowState_SnapshotIsCopy(t *testing.T) {
	s := NewRowState(1, map[string]any{"status": "paid"})
	snap := s.Snapshot()
	snap["status"] = "failed"
	assert.Equal(t, "paid", s.String("status"))
}

func TestRowMap(t *testing.T) {
	sub := "sub-1"
	m, err := RowMap(models.Order{ID: 42, Status: "paid", CheckoutSubmissionID: &sub})
	assert.NoError(t, err)
	assert.Equal(t, "paid", m["status"])
	assert.Equal(t, "sub-1", m["checkout_submission_id"])

	s := NewRowState(1, m)
	assert.Equal(t, "42", s.String("id"))
}
