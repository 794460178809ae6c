package handler

import (
	"net/http"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/service"
	"saharaessence/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SyncHandler обрабатывает операторские триггеры синхронизации
// В отличие от чата эти endpoints отдают сырой текст ошибки:
// их вызывает оператор или планировщик, не покупатель
type SyncHandler struct {
	syncService service.SyncServiceInterface
}

func NewSyncHandler(syncService service.SyncServiceInterface) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// TriggerSync обрабатывает GET /api/sync
// Запускает полный прогон синхронизации немедленно, вне расписания
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	stats, err := h.syncService.Run(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("manual sync failed")
		c.JSON(http.StatusInternalServerError, entity.SyncResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entity.SyncResponse{
		Success: true,
		Message: "Sync completed",
		Stats:   stats,
	})
}

// TriggerBackfill обрабатывает POST /api/sync/embeddings
// Генерирует эмбеддинги для строк каталога, где их еще нет
func (h *SyncHandler) TriggerBackfill(c *gin.Context) {
	stats, err := h.syncService.BackfillEmbeddings(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("manual embedding backfill failed")
		c.JSON(http.StatusInternalServerError, entity.SyncResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Embedding backfill completed",
		"stats":   stats,
	})
}
