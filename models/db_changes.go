package models

import (
	"time"
)

// DBChange diisi oleh trigger database; ID yang monoton dipakai sebagai versi baris.
type DBChange struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SourceTable string    `gorm:"column:table_name;type:varchar(50);not null;index:idx_table_action"`
	RecordID    string    `gorm:"type:varchar(64);not null"`
	OwnerID     string    `gorm:"type:varchar(36)"`
	ActionType  string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt   time.Time `gorm:"not null;autoCreateTime"`
	Processed   bool      `gorm:"not null;default:false;index:idx_processed"`
}

func (DBChange) TableName() string {
	return "db_changes"
}

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)
