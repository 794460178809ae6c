package handler

import (
	"net/http"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/service"
	"saharaessence/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ChatHandler обрабатывает диалоговый подбор парфюмов
type ChatHandler struct {
	recommendations service.RecommendationServiceInterface
	validator       *validator.Validate
}

func NewChatHandler(recommendations service.RecommendationServiceInterface) *ChatHandler {
	return &ChatHandler{
		recommendations: recommendations,
		validator:       validator.New(),
	}
}

// Chat обрабатывает POST /api/chat
// Граница "всегда 200": фатальная ошибка пайплайна уходит клиенту тем же
// статусом и той же формой, что успешный ход, с фиксированным извинением
// персоны вместо текста; сырая ошибка остается только в логах
func (h *ChatHandler) Chat(c *gin.Context) {
	var req entity.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	response, err := h.recommendations.Chat(c.Request.Context(), req.Messages)
	if err != nil {
		logger.Error().Err(err).Msg("chat pipeline failed")
		c.JSON(http.StatusOK, entity.ChatResponse{
			Role:    "assistant",
			Content: service.ApologyMessage,
			Data:    []entity.RecommendedPerfume{},
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
