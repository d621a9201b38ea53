package database

import (
	"fmt"

	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

// AutoMigrate membuat tabel aplikasi lalu memasang trigger perubahan.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Product{},
		&models.CheckoutSubmission{},
		&models.Order{},
		&models.OrderItem{},
		&models.Return{},
		&models.CartItem{},
		&models.Favorite{},
		&models.DBChange{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := ExecuteTriggers(db); err != nil {
		return fmt.Errorf("setup triggers: %w", err)
	}
	return nil
}
