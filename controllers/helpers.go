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

var (
	errUnauthorized  = errors.New("unauthorized")
	errOrderNotFound = errors.New("pesanan tidak ditemukan")
	errInvalidID     = errors.New("id tidak valid")
)

// requireUser membaca user dari context; false berarti respons 401 sudah dikirim.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errUnauthorized)
		return "", false
	}
	return userID, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

// findUserOrder hanya mengembalikan order milik userID.
func findUserOrder(db *gorm.DB, userID string, orderID uint, preload ...string) (*models.Order, error) {
	q := db
	for _, p := range preload {
		q = q.Preload(p)
	}
	var order models.Order
	if err := q.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// submissionStatus mengembalikan status submission terkait, "" jika tidak ada.
func submissionStatus(db *gorm.DB, order *models.Order) (string, error) {
	if order.CheckoutSubmissionID == nil || *order.CheckoutSubmissionID == "" {
		return "", nil
	}
	var sub models.CheckoutSubmission
	err := db.Select("id", "status").First(&sub, "id = ?", *order.CheckoutSubmissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return sub.Status, err
}

// orderDisplay adalah satu-satunya sumber status tampilan order di semua endpoint.
func orderDisplay(db *gorm.DB, order *models.Order) (status.Display, error) {
	subStatus, err := submissionStatus(db, order)
	if err != nil {
		return "", err
	}
	return status.Combine(order.Status, subStatus), nil
}

// orderDisplays sama dengan orderDisplay untuk banyak order dengan satu query submission.
func orderDisplays(db *gorm.DB, orders []models.Order) (map[uint]status.Display, error) {
	var ids []string
	for _, o := range orders {
		if o.CheckoutSubmissionID != nil && *o.CheckoutSubmissionID != "" {
			ids = append(ids, *o.CheckoutSubmissionID)
		}
	}

	subStatus := make(map[string]string, len(ids))
	if len(ids) > 0 {
		var subs []models.CheckoutSubmission
		if err := db.Select("id", "status").Where("id IN ?", ids).Find(&subs).Error; err != nil {
			return nil, err
		}
		for _, s := range subs {
			subStatus[s.ID] = s.Status
		}
	}

	out := make(map[uint]status.Display, len(orders))
	for _, o := range orders {
		var sub string
		if o.CheckoutSubmissionID != nil {
			sub = subStatus[*o.CheckoutSubmissionID]
		}
		out[o.ID] = status.Combine(o.Status, sub)
	}
	return out, nil
}

func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, errOrderNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.ErrorLogger.Errorf("lookup %s: %v", c.FullPath(), err)
	utils.RespondError(c, http.StatusInternalServerError, errors.New(msgInternalError))
}
