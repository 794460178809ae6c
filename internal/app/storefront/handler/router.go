package handler

import (
	"net/http"

	"saharaessence/pkg/logger"
	"saharaessence/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает все маршруты Storefront Service с использованием Gin
// Публичная витрина открыта без аутентификации; операторские триггеры
// синхронизации закрыты bearer-секретом
func SetupRoutes(
	chatHandler *ChatHandler,
	catalogHandler *CatalogHandler,
	cartHandler *CartHandler,
	syncHandler *SyncHandler,
	syncAuth *SyncAuthMiddleware,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("storefront"))

	// Витрина - браузерный клиент с другого origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Cart-Session")
	corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, "X-Cart-Session", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	// Health check endpoint - публичный
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "storefront-service",
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Диалоговый подбор парфюмов
		api.POST("/chat", chatHandler.Chat)

		// Каталог
		api.GET("/perfumes", catalogHandler.GetAllPerfumes)
		api.GET("/perfumes/facets", catalogHandler.GetFacets) // До /:id, иначе Gin съест "facets" как id
		api.GET("/perfumes/:id", catalogHandler.GetPerfume)

		// Сессионная корзина
		cart := api.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.GET("/checkout", cartHandler.Checkout)
		}

		// Операторские триггеры синхронизации
		sync := api.Group("/sync")
		sync.Use(syncAuth.Authenticate())
		{
			sync.GET("", syncHandler.TriggerSync)
			sync.POST("/embeddings", syncHandler.TriggerBackfill)
		}
	}

	return router
}
