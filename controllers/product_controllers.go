package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

// ProductController hanya membaca katalog; pengelolaan produk ada di backend admin.
type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetAllProducts, ?q= mencari berdasarkan nama produk
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	var products []models.Product

	q := pc.DB.Order("created_at DESC").Order("id DESC")
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		q = q.Where("LOWER(nama_produk) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if err := q.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetProductByID
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseUintParam(c, "produk_id")
	if !ok {
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errProductNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product detail", gin.H{
		"product":         product,
		"harga_formatted": utils.FormatCurrencyIDR(product.Harga),
	})
}
