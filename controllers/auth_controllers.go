package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/metrics"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Pesan error alur reset password. Teksnya bagian dari kontrak dengan frontend.
const (
	msgIncompleteData   = "Data tidak lengkap"
	msgPasswordTooShort = "Password minimal 6 karakter"
	msgInvalidCode      = "Kode tidak valid atau sudah kedaluwarsa"
	msgUserNotFound     = "Pengguna tidak ditemukan"
	msgUpdateFailed     = "Gagal memperbarui password"
	msgServerMisconfig  = "Konfigurasi server belum lengkap"
	msgInternalError    = "Terjadi kesalahan pada server"
	msgEmailRequired    = "Email wajib diisi"
	msgSendCodeFailed   = "Gagal mengirim kode verifikasi"
	minPasswordLength   = 6
	resetCodeDigits     = 6
	resetCodeLifetime   = 15 * time.Minute
)

var errVerificationNotFound = errors.New("verification not found")

type AuthController struct {
	DB     *gorm.DB
	Pepper string
	Mailer utils.Mailer
	Now    func() time.Time
}

func NewAuthController(db *gorm.DB, pepper string, mailer utils.Mailer) *AuthController {
	if mailer == nil {
		mailer = utils.LogMailer{}
	}
	return &AuthController{DB: db, Pepper: pepper, Mailer: mailer, Now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func resetFail(c *gin.Context, code int, outcome, message string) {
	metrics.ResetAttemptsTotal.WithLabelValues(outcome).Inc()
	utils.RespondErrorMessage(c, code, message)
}

// latestVerification mengambil kode reset terbaru yang belum dipakai dan belum kedaluwarsa.
func (ac *AuthController) latestVerification(db *gorm.DB, email string) (*models.EmailVerification, error) {
	var v models.EmailVerification
	err := db.Where("email = ? AND purpose = ? AND used = ? AND expires_at > ?",
		email, models.PurposeResetPassword, false, ac.Now()).
		Order("created_at DESC").
		Order("id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ResetPassword -> POST /api/auth/reset-password {email, code, newPassword}
func (ac *AuthController) ResetPassword(c *gin.Context) {
	if ac.Pepper == "" {
		utils.ErrorLogger.Error("reset password ditolak: pepper verifikasi belum diatur")
		resetFail(c, http.StatusInternalServerError, "misconfigured", msgServerMisconfig)
		return
	}

	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resetFail(c, http.StatusBadRequest, "incomplete", msgIncompleteData)
		return
	}

	email := normalizeEmail(req.Email)
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" || req.NewPassword == "" {
		resetFail(c, http.StatusBadRequest, "incomplete", msgIncompleteData)
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		resetFail(c, http.StatusBadRequest, "weak_password", msgPasswordTooShort)
		return
	}

	verification, err := ac.latestVerification(ac.DB, email)
	if errors.Is(err, errVerificationNotFound) {
		resetFail(c, http.StatusBadRequest, "invalid_code", msgInvalidCode)
		return
	}
	if err != nil {
		utils.ErrorLogger.Errorf("lookup verifikasi %s: %v", email, err)
		resetFail(c, http.StatusInternalServerError, "error", msgInternalError)
		return
	}

	if !utils.VerifyCode(code, ac.Pepper, verification.CodeHash) {
		resetFail(c, http.StatusBadRequest, "invalid_code", msgInvalidCode)
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resetFail(c, http.StatusNotFound, "user_not_found", msgUserNotFound)
			return
		}
		utils.ErrorLogger.Errorf("lookup user %s: %v", email, err)
		resetFail(c, http.StatusInternalServerError, "error", msgInternalError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		resetFail(c, http.StatusInternalServerError, "update_failed", msgUpdateFailed)
		return
	}

	now := ac.Now()
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}

		// used = false di WHERE supaya dua request paralel tidak memakai kode yang sama
		res := tx.Model(&models.EmailVerification{}).
			Where("id = ? AND used = ?", verification.ID, false).
			Updates(map[string]interface{}{"used": true, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errVerificationNotFound
		}
		return nil
	})
	if errors.Is(err, errVerificationNotFound) {
		resetFail(c, http.StatusBadRequest, "invalid_code", msgInvalidCode)
		return
	}
	if err != nil {
		utils.ErrorLogger.Errorf("update password %s: %v", user.ID, err)
		resetFail(c, http.StatusInternalServerError, "update_failed", msgUpdateFailed)
		return
	}

	metrics.ResetAttemptsTotal.WithLabelValues("ok").Inc()
	utils.InfoLogger.Printf("Password reset for user %s", user.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ForgotPassword -> kirim kode 6 digit ke email. Email yang tidak terdaftar tetap dijawab ok.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	if ac.Pepper == "" {
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgServerMisconfig)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || normalizeEmail(req.Email) == "" {
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgEmailRequired)
		return
	}
	email := normalizeEmail(req.Email)

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Errorf("lookup user %s: %v", email, err)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	code, err := utils.GenerateNumericCode(resetCodeDigits)
	if err != nil {
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	verification := models.EmailVerification{
		Email:     email,
		Purpose:   models.PurposeResetPassword,
		CodeHash:  utils.HashVerificationCode(code, ac.Pepper),
		ExpiresAt: ac.Now().Add(resetCodeLifetime),
	}
	if err := ac.DB.Create(&verification).Error; err != nil {
		utils.ErrorLogger.Errorf("simpan kode verifikasi %s: %v", email, err)
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	if err := ac.Mailer.SendResetCode(email, code); err != nil {
		utils.ErrorLogger.Errorf("kirim kode reset %s: %v", email, err)
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgSendCodeFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// VerifyResetCode memeriksa kode tanpa menandainya terpakai.
func (ac *AuthController) VerifyResetCode(c *gin.Context) {
	if ac.Pepper == "" {
		utils.RespondErrorMessage(c, http.StatusInternalServerError, msgServerMisconfig)
		return
	}

	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgIncompleteData)
		return
	}
	email := normalizeEmail(req.Email)
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgIncompleteData)
		return
	}

	verification, err := ac.latestVerification(ac.DB, email)
	if err != nil {
		if !errors.Is(err, errVerificationNotFound) {
			utils.ErrorLogger.Errorf("lookup verifikasi %s: %v", email, err)
			utils.RespondErrorMessage(c, http.StatusInternalServerError, msgInternalError)
			return
		}
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgInvalidCode)
		return
	}
	if !utils.VerifyCode(code, ac.Pepper, verification.CodeHash) {
		utils.RespondErrorMessage(c, http.StatusBadRequest, msgInvalidCode)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
