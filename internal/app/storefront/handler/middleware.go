package handler

import (
	"net/http"

	"saharaessence/internal/app/storefront/entity"

	"github.com/gin-gonic/gin"
)

// SyncAuthMiddleware защищает операторские endpoints синхронизации
// общим bearer-секретом. Пустой секрет отключает проверку:
// так удобнее в локальной разработке
type SyncAuthMiddleware struct {
	secret string
}

func NewSyncAuthMiddleware(secret string) *SyncAuthMiddleware {
	return &SyncAuthMiddleware{secret: secret}
}

// Authenticate возвращает Gin middleware с проверкой заголовка Authorization
func (m *SyncAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.secret == "" {
			c.Next()
			return
		}

		if c.GetHeader("Authorization") != "Bearer "+m.secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
			return
		}

		c.Next()
	}
}
