package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

var errSubmissionNotFound = errors.New("checkout tidak ditemukan")

type CheckoutController struct {
	DB *gorm.DB
}

func NewCheckoutController(db *gorm.DB) *CheckoutController {
	return &CheckoutController{DB: db}
}

// CheckoutView dipakai halaman menunggu pembayaran sebelum order dibuat
type CheckoutView struct {
	Submission    models.CheckoutSubmission `json:"submission"`
	Items         []models.CheckoutItem     `json:"items"`
	OrderID       *uint                     `json:"order_id,omitempty"`
	DisplayStatus status.Display            `json:"display_status"`
	Redirect      string                    `json:"redirect,omitempty"`
	CheckoutURL   string                    `json:"checkout_url,omitempty"`
}

// GetCheckout -> GET /api/checkout/:submission_id
func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var sub models.CheckoutSubmission
	err := cc.DB.Where("id = ? AND user_id = ?", c.Param("submission_id"), userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errSubmissionNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	items, err := sub.Items()
	if err != nil {
		utils.ErrorLogger.Errorf("decode items submission %s: %v", sub.ID, err)
		items = []models.CheckoutItem{}
	}

	view := CheckoutView{
		Submission:    sub,
		Items:         items,
		DisplayStatus: status.Normalize(sub.Status),
		CheckoutURL:   sub.CheckoutURL(),
	}

	// order yang sudah dibuat dari submission ini menentukan status dan tujuan redirect
	var order models.Order
	err = cc.DB.Select("id", "status").Where("checkout_submission_id = ?", sub.ID).First(&order).Error
	switch {
	case err == nil:
		view.OrderID = &order.ID
		view.DisplayStatus = status.Combine(order.Status, sub.Status)
		view.Redirect = status.RedirectPath(view.DisplayStatus, strconv.FormatUint(uint64(order.ID), 10))
	case errors.Is(err, gorm.ErrRecordNotFound):
		view.Redirect = status.RedirectPath(view.DisplayStatus, sub.ID)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Checkout detail", view)
}
