package models

import "time"

// PurposeResetPassword menandai kode yang diterbitkan oleh alur lupa password.
const PurposeResetPassword = "reset_password"

// EmailVerification menyimpan hash kode sekali pakai, bukan kodenya.
type EmailVerification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(255);not null;index:idx_verification_lookup" json:"email"`
	Purpose   string     `gorm:"type:varchar(30);not null;index:idx_verification_lookup" json:"purpose"`
	CodeHash  string     `gorm:"type:varchar(64);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
