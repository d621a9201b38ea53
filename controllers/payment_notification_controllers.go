package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/services"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

type PaymentController struct {
	Payments  *services.PaymentService
	ServerKey string
}

func NewPaymentController(db *gorm.DB, serverKey string) *PaymentController {
	return &PaymentController{Payments: services.NewPaymentService(db), ServerKey: serverKey}
}

// MidtransNotification -> webhook HTTP notification dari Midtrans
func (pc *PaymentController) MidtransNotification(c *gin.Context) {
	var request struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !services.ValidateMidtransSignature(pc.ServerKey, request.OrderID, request.StatusCode, request.GrossAmount, request.SignatureKey) {
		utils.ErrorLogger.Warnf("Invalid Midtrans signature for %s", request.OrderID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	sub, err := pc.Payments.FindSubmissionByReference(c.Request.Context(), request.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	changed, err := pc.Payments.ApplyGatewayStatus(c.Request.Context(), sub, request.TransactionStatus)
	if err != nil {
		if errors.Is(err, services.ErrUnknownGatewayStatus) {
			// status seperti refund tidak mengubah status checkout
			c.JSON(http.StatusOK, gin.H{"ok": true, "changed": false})
			return
		}
		utils.ErrorLogger.Errorf("apply notification %s: %v", request.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	utils.InfoLogger.Printf("Midtrans notification %s -> %s (changed=%v)", request.OrderID, request.TransactionStatus, changed)
	c.JSON(http.StatusOK, gin.H{"ok": true, "changed": changed})
}
