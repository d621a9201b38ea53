package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/sepatu-storefront/utils"
)

var errTokenMissing = errors.New("token tidak ditemukan")

// bearerToken membaca token dari header Authorization, atau dari query ?token=
// untuk koneksi websocket yang tidak bisa mengirim header.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}

func AuthMiddleware(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errTokenMissing)
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set(utils.ContextUserID, claims.UserID)
		c.Next()
	}
}
