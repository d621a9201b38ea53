package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
)

type fakeGateway struct {
	statuses map[string]string
}

func (g fakeGateway) TransactionStatus(_ context.Context, ref string) (string, error) {
	s, ok := g.statuses[ref]
	if !ok {
		return "", errors.New("transaction not found")
	}
	return s, nil
}

func TestPaymentMonitor_Reconcile(t *testing.T) {
	db := setupTestDB(t)

	paid := models.CheckoutSubmission{UserID: "u1", PaymentReference: "INV-1", Status: status.RawSubmitted}
	stillPending := models.CheckoutSubmission{UserID: "u1", PaymentReference: "INV-2", Status: status.RawPending}
	missing := models.CheckoutSubmission{UserID: "u1", PaymentReference: "INV-3", Status: status.RawPending}
	noRef := models.CheckoutSubmission{UserID: "u1", Status: status.RawSubmitted}
	for _, s := range []*models.CheckoutSubmission{&paid, &stillPending, &missing, &noRef} {
		require.NoError(t, db.Create(s).Error)
	}

	order := models.Order{UserID: "u1", Status: status.RawSubmitted, CheckoutSubmissionID: &paid.ID}
	require.NoError(t, db.Create(&order).Error)

	pm := NewPaymentMonitor(db, fakeGateway{statuses: map[string]string{
		"INV-1": "settlement",
		"INV-2": "pending",
	}})

	n, err := pm.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.CheckoutSubmission
	require.NoError(t, db.First(&got, "id = ?", paid.ID).Error)
	assert.Equal(t, status.RawPaid, got.Status)

	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Equal(t, status.RawPaid, gotOrder.Status)

	require.NoError(t, db.First(&got, "id = ?", stillPending.ID).Error)
	assert.Equal(t, status.RawPending, got.Status)
}

func TestPaymentService_ApplyGatewayStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	sub := models.CheckoutSubmission{UserID: "u1", PaymentReference: "INV-9", Status: status.RawPending}
	require.NoError(t, db.Create(&sub).Error)

	_, err := svc.ApplyGatewayStatus(context.Background(), &sub, "refund")
	assert.ErrorIs(t, err, ErrUnknownGatewayStatus)

	changed, err := svc.ApplyGatewayStatus(context.Background(), &sub, "authorize")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.ApplyGatewayStatus(context.Background(), &sub, "expire")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, status.RawCancelled, sub.Status)

	found, err := svc.FindSubmissionByReference(context.Background(), "INV-9")
	require.NoError(t, err)
	assert.Equal(t, status.RawCancelled, found.Status)
}

func TestPaymentService_LateNotificationKeepsTerminalStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	ctx := context.Background()

	sub := models.CheckoutSubmission{UserID: "u1", PaymentReference: "INV-10", Status: status.RawSubmitted}
	require.NoError(t, db.Create(&sub).Error)
	order := models.Order{UserID: "u1", Status: status.RawSubmitted, CheckoutSubmissionID: &sub.ID}
	require.NoError(t, db.Create(&order).Error)

	changed, err := svc.ApplyGatewayStatus(ctx, &sub, "settlement")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = svc.ApplyGatewayStatus(ctx, &sub, "pending")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, status.RawPaid, sub.Status)

	// salinan lama dari sebelum settlement juga tidak boleh memundurkan status
	stale := models.CheckoutSubmission{ID: sub.ID, Status: status.RawSubmitted}
	changed, err = svc.ApplyGatewayStatus(ctx, &stale, "expire")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, status.RawSubmitted, stale.Status)

	var got models.CheckoutSubmission
	require.NoError(t, db.First(&got, "id = ?", sub.ID).Error)
	assert.Equal(t, status.RawPaid, got.Status)
	assert.Equal(t, status.Dibayar, status.Normalize(got.Status))

	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Equal(t, status.RawPaid, gotOrder.Status)
}
