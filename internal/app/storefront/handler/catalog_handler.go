package handler

import (
	"errors"
	"net/http"
	"strconv"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CatalogHandler обрабатывает HTTP запросы чтения каталога
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetAllPerfumes обрабатывает GET /api/perfumes
// Фильтры опциональны и передаются query-параметрами
func (h *CatalogHandler) GetAllPerfumes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	filter := entity.CatalogFilter{
		Gender:   c.Query("gender"),
		Family:   c.Query("family"),
		Occasion: c.Query("occasion"),
		Brand:    c.Query("brand"),
		Limit:    limit,
	}

	perfumes, err := h.catalogService.ListPerfumes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get perfumes")
		return
	}

	c.JSON(http.StatusOK, entity.PerfumeListResponse{Perfumes: perfumes})
}

// GetPerfume обрабатывает GET /api/perfumes/:id
func (h *CatalogHandler) GetPerfume(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid perfume ID")
		return
	}

	perfume, err := h.catalogService.GetPerfume(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPerfumeNotFound) {
			respondError(c, http.StatusNotFound, "Perfume not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to get perfume")
		return
	}

	c.JSON(http.StatusOK, perfume)
}

// GetFacets обрабатывает GET /api/perfumes/facets
// Возвращает уникальные значения фильтров для витрины каталога
func (h *CatalogHandler) GetFacets(c *gin.Context) {
	facets, err := h.catalogService.GetFacets(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get facets")
		return
	}

	c.JSON(http.StatusOK, facets)
}

// respondError отправляет единообразный ответ об ошибке
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{Error: message})
}

// formatValidationError превращает ошибку валидатора в читаемое сообщение
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return "Validation failed on field '" + fe.Field() + "' (" + fe.Tag() + ")"
	}
	return "Validation failed"
}
