package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// OrderView menambahkan status tampilan ke order
type OrderView struct {
	models.Order
	DisplayStatus status.Display `json:"display_status"`
}

// OrderStatus adalah respons polling halaman menunggu pembayaran
type OrderStatus struct {
	OrderID          uint           `json:"order_id"`
	Status           string         `json:"status"`
	SubmissionID     string         `json:"checkout_submission_id,omitempty"`
	SubmissionStatus string         `json:"submission_status,omitempty"`
	DisplayStatus    status.Display `json:"display_status"`
	Redirect         string         `json:"redirect,omitempty"`
}

// GetMyOrders -> daftar order milik user, terbaru dulu
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems.Produk").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	displays, err := orderDisplays(oc.DB, orders)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{Order: o, DisplayStatus: displays[o.ID]})
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", views)
}

// GetOrderByID -> detail order beserta item
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := findUserOrder(oc.DB, userID, orderID, "OrderItems.Produk")
	if err != nil {
		respondLookupError(c, err)
		return
	}

	display, err := orderDisplay(oc.DB, order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", OrderView{
		Order:         *order,
		DisplayStatus: display,
	})
}

// GetOrderStatus -> fallback polling untuk halaman pembayaran bila websocket tidak tersedia
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := findUserOrder(oc.DB, userID, orderID)
	if err != nil {
		respondLookupError(c, err)
		return
	}

	subStatus, err := submissionStatus(oc.DB, order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	display := status.Combine(order.Status, subStatus)
	resp := OrderStatus{
		OrderID:          order.ID,
		Status:           order.Status,
		SubmissionStatus: subStatus,
		DisplayStatus:    display,
		Redirect:         status.RedirectPath(display, strconv.FormatUint(uint64(order.ID), 10)),
	}
	if order.CheckoutSubmissionID != nil {
		resp.SubmissionID = *order.CheckoutSubmissionID
	}
	utils.RespondJSON(c, http.StatusOK, "Order status", resp)
}
