package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

var (
	errReturnNotFound     = errors.New("pengembalian tidak ditemukan")
	errReturnNotPaid      = errors.New("hanya pesanan yang sudah dibayar yang dapat dikembalikan")
	errReturnExists       = errors.New("pengembalian untuk pesanan ini sedang diproses")
	errReturnNotApproved  = errors.New("pengembalian belum disetujui")
	errReturnWaybillEmpty = errors.New("nomor resi pengembalian wajib diisi")
)

type ReturnController struct {
	DB *gorm.DB
}

func NewReturnController(db *gorm.DB) *ReturnController {
	return &ReturnController{DB: db}
}

// GetMyReturns -> daftar pengembalian milik user
func (rc *ReturnController) GetMyReturns(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var returns []models.Return
	if err := rc.DB.Preload("Order").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&returns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of returns", returns)
}

// CreateReturn -> ajukan pengembalian untuk order yang sudah dibayar
func (rc *ReturnController) CreateReturn(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := findUserOrder(rc.DB, userID, req.OrderID)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	display, err := orderDisplay(rc.DB, order)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	if display != status.Dibayar {
		utils.RespondError(c, http.StatusConflict, errReturnNotPaid)
		return
	}

	ret := models.Return{
		UserID:  userID,
		OrderID: order.ID,
		Status:  models.ReturnStatusPending,
		Reason:  strings.TrimSpace(req.Reason),
		Notes:   strings.TrimSpace(req.Notes),
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.Return
		if err := tx.Where("order_id = ?", order.ID).Find(&existing).Error; err != nil {
			return err
		}
		for _, r := range existing {
			if r.Open() {
				return errReturnExists
			}
		}
		return tx.Create(&ret).Error
	})
	if errors.Is(err, errReturnExists) {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Return %d created for order %d", ret.ID, order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Return created", ret)
}

// SubmitReturnWaybill -> pelanggan mengirim resi setelah pengembalian disetujui.
// Status berpindah approved -> returned di server, bukan dari client.
func (rc *ReturnController) SubmitReturnWaybill(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	returnID, ok := parseUintParam(c, "return_id")
	if !ok {
		return
	}

	var req struct {
		ReturnWaybill string `json:"return_waybill"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ReturnWaybill) == "" {
		utils.RespondError(c, http.StatusBadRequest, errReturnWaybillEmpty)
		return
	}

	var ret models.Return
	if err := rc.DB.Where("id = ? AND user_id = ?", returnID, userID).First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errReturnNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !models.CanTransitionReturn(ret.Status, models.ReturnStatusReturned) {
		utils.RespondError(c, http.StatusConflict, errReturnNotApproved)
		return
	}

	res := rc.DB.Model(&models.Return{}).
		Where("id = ? AND status = ?", ret.ID, ret.Status).
		Updates(map[string]interface{}{
			"return_waybill": strings.TrimSpace(req.ReturnWaybill),
			"status":         models.ReturnStatusReturned,
		})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusConflict, errReturnNotApproved)
		return
	}

	ret.ReturnWaybill = strings.TrimSpace(req.ReturnWaybill)
	ret.Status = models.ReturnStatusReturned
	utils.RespondJSON(c, http.StatusOK, "Return waybill submitted", ret)
}
