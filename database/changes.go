package database

import (
	"github.com/yeremiapane/sepatu-storefront/models"
	"gorm.io/gorm"
)

// LatestChangeID adalah versi awal untuk snapshot yang dibaca sekarang. Perubahan
// dengan id lebih besar pasti terjadi setelah snapshot.
func LatestChangeID(db *gorm.DB) (uint64, error) {
	var id uint64
	err := db.Model(&models.DBChange{}).Select("COALESCE(MAX(id), 0)").Scan(&id).Error
	return id, err
}

// RecordChange dipakai jalur yang tidak lewat trigger (sqlite saat test, tool internal).
func RecordChange(db *gorm.DB, table, recordID, ownerID, action string) error {
	return db.Create(&models.DBChange{
		SourceTable: table,
		RecordID:    recordID,
		OwnerID:     ownerID,
		ActionType:  action,
	}).Error
}
