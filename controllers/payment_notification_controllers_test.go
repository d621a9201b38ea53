package controllers_test

import (
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/controllers"
	"github.com/yeremiapane/sepatu-storefront/models"
)

const testServerKey = "SB-Mid-server-test"

func signNotification(orderID, statusCode, gross string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + gross + testServerKey))
	return hex.EncodeToString(sum[:])
}

func TestMidtransNotification(t *testing.T) {
	db := setupTestDB(t)
	ctrl := controllers.NewPaymentController(db, testServerKey)
	r := newTestEngine("")
	r.POST("/api/payments/midtrans/notification", ctrl.MidtransNotification)

	sub := models.CheckoutSubmission{UserID: "user-1", Status: "submitted", PaymentReference: "CHK-0001"}
	require.NoError(t, db.Create(&sub).Error)
	order := seedOrder(t, db, models.Order{UserID: "user-1", Status: "pending", CheckoutSubmissionID: &sub.ID})

	notification := func(txStatus, sig string) map[string]string {
		return map[string]string{
			"order_id":           "CHK-0001",
			"transaction_status": txStatus,
			"status_code":        "200",
			"gross_amount":       "350000.00",
			"signature_key":      sig,
		}
	}
	validSig := signNotification("CHK-0001", "200", "350000.00")

	t.Run("bad signature", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", notification("settlement", "deadbeef"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown reference", func(t *testing.T) {
		body := notification("settlement", signNotification("CHK-9999", "200", "350000.00"))
		body["order_id"] = "CHK-9999"
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("refund is ignored", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", notification("refund", validSig))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["changed"])
	})

	t.Run("settlement marks paid", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", notification("settlement", validSig))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decodeBody(t, w)["changed"])

		var storedSub models.CheckoutSubmission
		require.NoError(t, db.First(&storedSub, "id = ?", sub.ID).Error)
		assert.Equal(t, "paid", storedSub.Status)

		var storedOrder models.Order
		require.NoError(t, db.First(&storedOrder, order.ID).Error)
		assert.Equal(t, "paid", storedOrder.Status)
	})

	t.Run("duplicate notification is a no-op", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", notification("capture", validSig))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["changed"])
	})

	t.Run("late pending does not reopen paid checkout", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/payments/midtrans/notification", notification("pending", validSig))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, false, decodeBody(t, w)["changed"])

		var storedSub models.CheckoutSubmission
		require.NoError(t, db.First(&storedSub, "id = ?", sub.ID).Error)
		assert.Equal(t, "paid", storedSub.Status)

		var storedOrder models.Order
		require.NoError(t, db.First(&storedOrder, order.ID).Error)
		assert.Equal(t, "paid", storedOrder.Status)
	})
}
