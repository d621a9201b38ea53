package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/tracking"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

const (
	msgTrackingBadRequest = "Nomor resi dan kurir wajib diisi"
	msgTrackingDisabled   = "Pelacakan belum tersedia untuk pesanan ini"
)

type TrackingController struct {
	DB      *gorm.DB
	Service *tracking.Service
}

func NewTrackingController(db *gorm.DB, svc *tracking.Service) *TrackingController {
	return &TrackingController{DB: db, Service: svc}
}

// respondTrackingError memetakan error tracking ke {error} dengan status yang sesuai.
func respondTrackingError(c *gin.Context, err error) {
	var perr *tracking.ProviderError
	switch {
	case errors.Is(err, tracking.ErrUntrackable), errors.Is(err, tracking.ErrUnknownCourier):
		utils.RespondErrorMessage(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &perr):
		utils.RespondErrorMessage(c, http.StatusBadGateway, perr.Message)
	default:
		utils.ErrorLogger.Errorf("tracking: %v", err)
		utils.RespondErrorMessage(c, http.StatusBadGateway, tracking.FallbackProviderMessage)
	}
}

// TrackBiteship -> POST /api/tracking/biteship {waybill, courier}
func (tc *TrackingController) TrackBiteship(c *gin.Context) {
	var req struct {
		Waybill string `json:"waybill"`
		Courier string `json:"courier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Waybill) == "" || strings.TrimSpace(req.Courier) == "" {
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgTrackingBadRequest)
		return
	}

	courier, ok := tracking.ParseCourier(req.Courier)
	if !ok {
		utils.RespondErrorMessage(c, http.StatusBadRequest, tracking.ErrUnknownCourier.Error())
		return
	}

	result, err := tc.Service.Track(c.Request.Context(), req.Waybill, courier)
	if err != nil {
		respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// TrackOrder -> GET /api/orders/:order_id/tracking, kurir dan resi diambil dari order
func (tc *TrackingController) TrackOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := findUserOrder(tc.DB, userID, orderID)
	if err != nil {
		if errors.Is(err, errOrderNotFound) {
			utils.RespondErrorMessage(c, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	courier := tracking.ResolveCourier(order.ShippingMethod)
	if courier == tracking.CourierNone || !tracking.CanTrack(order.ShippingResi) {
		utils.RespondErrorMessage(c, http.StatusConflict, msgTrackingDisabled)
		return
	}

	result, err := tc.Service.Track(c.Request.Context(), order.ShippingResi, courier)
	if err != nil {
		respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
