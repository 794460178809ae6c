package handler

import (
	"errors"
	"net/http"
	"strconv"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Заголовок с идентификатором сессии корзины
// Клиент без заголовка получает новую сессию в ответном заголовке
const cartSessionHeader = "X-Cart-Session"

// CartHandler обрабатывает HTTP запросы сессионной корзины
type CartHandler struct {
	cartService service.CartServiceInterface
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartServiceInterface) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

// sessionID достает сессию из заголовка или выдает новую
// Ответ всегда несет актуальный идентификатор, чтобы клиент его сохранил
func (h *CartHandler) sessionID(c *gin.Context) string {
	sessionID := c.GetHeader(cartSessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Header(cartSessionHeader, sessionID)
	return sessionID
}

// GetCart обрабатывает GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), h.sessionID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem обрабатывает POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req entity.AddCartItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), h.sessionID(c), req.PerfumeID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrPerfumeNotFound) {
			respondError(c, http.StatusNotFound, "Perfume not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateItem обрабатывает PUT /api/cart/items/:id
// Количество ноль и меньше удаляет позицию
func (h *CartHandler) UpdateItem(c *gin.Context) {
	perfumeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid perfume ID")
		return
	}

	var req entity.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), h.sessionID(c), perfumeID, req.Quantity)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem обрабатывает DELETE /api/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	perfumeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid perfume ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), h.sessionID(c), perfumeID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart обрабатывает DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), h.sessionID(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Cart cleared"})
}

// Checkout обрабатывает GET /api/cart/checkout
// Возвращает deep link WhatsApp с текстом заказа
func (h *CartHandler) Checkout(c *gin.Context) {
	link, err := h.cartService.CheckoutLink(c.Request.Context(), h.sessionID(c))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			respondError(c, http.StatusBadRequest, "Cart is empty")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to build checkout link")
		return
	}

	c.JSON(http.StatusOK, entity.CheckoutResponse{URL: link})
}
