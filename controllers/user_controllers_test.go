package controllers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/controllers"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	ctrl := controllers.NewUserController(db, utils.NewJWTManager("secret", time.Hour))
	r := newTestEngine("")
	r.POST("/api/auth/register", ctrl.Register)

	body := map[string]any{"name": "Budi", "email": "Budi@Example.com", "password": "rahasia123"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "budi@example.com").Error)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_EmailCheckFailureStopsCreate(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_users_count", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			_ = tx.AddError(errors.New("database tidak tersedia"))
		}
	}))

	ctrl := controllers.NewUserController(db, utils.NewJWTManager("secret", time.Hour))
	r := newTestEngine("")
	r.POST("/api/auth/register", ctrl.Register)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Budi", "email": "budi@example.com", "password": "rahasia123",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database tidak tersedia")

	require.NoError(t, db.Callback().Query().Remove("test:fail_users_count"))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
