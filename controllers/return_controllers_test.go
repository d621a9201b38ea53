package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/controllers"
	"github.com/yeremiapane/sepatu-storefront/models"
	"gorm.io/gorm"
)

func setupReturns(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := setupTestDB(t)
	ctrl := controllers.NewReturnController(db)
	r := newTestEngine("user-1")
	r.GET("/api/returns", ctrl.GetMyReturns)
	r.POST("/api/returns", ctrl.CreateReturn)
	r.POST("/api/returns/:return_id/waybill", ctrl.SubmitReturnWaybill)
	return db, r
}

func TestCreateReturn(t *testing.T) {
	db, r := setupReturns(t)
	paid := seedOrder(t, db, models.Order{UserID: "user-1", Status: "paid"})
	pending := seedOrder(t, db, models.Order{UserID: "user-1", Status: "pending"})
	foreign := seedOrder(t, db, models.Order{UserID: "user-2", Status: "paid"})

	w := doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": pending.ID, "reason": "Ukuran tidak pas"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": foreign.ID, "reason": "Ukuran tidak pas"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": paid.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": paid.ID, "reason": "Ukuran tidak pas", "notes": "minta tukar 42"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, models.ReturnStatusPending, data["status"])

	// pengembalian kedua saat yang pertama masih berjalan
	w = doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": paid.ID, "reason": "lagi"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/returns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)
}

func TestCreateReturn_PaidSubmission(t *testing.T) {
	db, r := setupReturns(t)
	sub := models.CheckoutSubmission{UserID: "user-1", Status: "paid"}
	require.NoError(t, db.Create(&sub).Error)
	order := seedOrder(t, db, models.Order{UserID: "user-1", Status: "submitted", CheckoutSubmissionID: &sub.ID})

	w := doJSON(t, r, http.MethodPost, "/api/returns", map[string]any{"order_id": order.ID, "reason": "Ukuran tidak pas"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSubmitReturnWaybill(t *testing.T) {
	db, r := setupReturns(t)
	order := seedOrder(t, db, models.Order{UserID: "user-1", Status: "paid"})

	tests := []struct {
		status   string
		wantCode int
	}{
		{models.ReturnStatusPending, http.StatusConflict},
		{models.ReturnStatusRejected, http.StatusConflict},
		{models.ReturnStatusReturned, http.StatusConflict},
		{models.ReturnStatusApproved, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			ret := models.Return{UserID: "user-1", OrderID: order.ID, Status: tt.status, Reason: "rusak"}
			require.NoError(t, db.Create(&ret).Error)

			w := doJSON(t, r, http.MethodPost, "/api/returns/"+uintStr(ret.ID)+"/waybill", map[string]string{"return_waybill": "JNE000111222"})
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var stored models.Return
			require.NoError(t, db.First(&stored, ret.ID).Error)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, models.ReturnStatusReturned, stored.Status)
				assert.Equal(t, "JNE000111222", stored.ReturnWaybill)
			} else {
				assert.Equal(t, tt.status, stored.Status)
				assert.Empty(t, stored.ReturnWaybill)
			}
		})
	}

	t.Run("empty waybill", func(t *testing.T) {
		ret := models.Return{UserID: "user-1", OrderID: order.ID, Status: models.ReturnStatusApproved, Reason: "rusak"}
		require.NoError(t, db.Create(&ret).Error)
		w := doJSON(t, r, http.MethodPost, "/api/returns/"+uintStr(ret.ID)+"/waybill", map[string]string{"return_waybill": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other user's return", func(t *testing.T) {
		ret := models.Return{UserID: "user-2", OrderID: order.ID, Status: models.ReturnStatusApproved, Reason: "rusak"}
		require.NoError(t, db.Create(&ret).Error)
		w := doJSON(t, r, http.MethodPost, "/api/returns/"+uintStr(ret.ID)+"/waybill", map[string]string{"return_waybill": "JNE000111222"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
