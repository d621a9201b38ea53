package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

var (
	errCartItemNotFound = errors.New("item keranjang tidak ditemukan")
	errProductNotFound  = errors.New("produk tidak ditemukan")
)

// CartStore berisi mutasi keranjang/favorit yang dipakai REST dan websocket.
type CartStore struct {
	DB *gorm.DB
}

func (s CartStore) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.DB.WithContext(ctx).Preload("Produk").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s CartStore) Favorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.DB.WithContext(ctx).Preload("Produk").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&favs).Error
	return favs, err
}

func (s CartStore) RemoveCartItem(ctx context.Context, userID string, itemID uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errCartItemNotFound
	}
	return nil
}

// ToggleFavorite mengembalikan true bila produk sekarang menjadi favorit.
func (s CartStore) ToggleFavorite(ctx context.Context, userID string, produkID uint) (bool, error) {
	var favorited bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND produk_id = ?", userID, produkID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}

		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", produkID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errProductNotFound
		}
		favorited = true
		return tx.Create(&models.Favorite{UserID: userID, ProdukID: produkID}).Error
	})
	return favorited, err
}

type CartController struct {
	Store CartStore
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{Store: CartStore{DB: db}}
}

func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.Produk.Harga
	}
	return total
}

// GetCart -> isi keranjang user
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	items, err := cc.Store.CartItems(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	total := cartTotal(items)
	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"items":           items,
		"total":           total,
		"total_formatted": utils.FormatCurrencyIDR(total),
	})
}

// RemoveCartItem -> DELETE /api/cart/:item_id
func (cc *CartController) RemoveCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	if err := cc.Store.RemoveCartItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, errCartItemNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item removed", nil)
}

// GetFavorites -> daftar favorit user
func (cc *CartController) GetFavorites(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	favs, err := cc.Store.Favorites(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Favorites", favs)
}

// ToggleFavorite -> POST /api/favorites/:produk_id/toggle
func (cc *CartController) ToggleFavorite(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	produkID, ok := parseUintParam(c, "produk_id")
	if !ok {
		return
	}

	favorited, err := cc.Store.ToggleFavorite(c.Request.Context(), userID, produkID)
	if err != nil {
		if errors.Is(err, errProductNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Favorite toggled", gin.H{"favorited": favorited})
}
