package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository"
	"saharaessence/internal/app/storefront/util"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// CartService управляет сессионными корзинами
// Состояние живет только в Redis; Total и ItemCount пересчитываются
// при каждой мутации и никогда не принимаются от клиента
type CartService struct {
	perfumeRepo    repository.PerfumeRepository
	store          util.CartStore
	whatsappNumber string
	imageBaseURL   string
}

func NewCartService(perfumeRepo repository.PerfumeRepository, store util.CartStore, whatsappNumber, imageBaseURL string) *CartService {
	return &CartService{
		perfumeRepo:    perfumeRepo,
		store:          store,
		whatsappNumber: whatsappNumber,
		imageBaseURL:   imageBaseURL,
	}
}

// GetCart возвращает корзину сессии; отсутствующая корзина - пустая корзина
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return &entity.Cart{Items: []entity.CartItem{}}, nil
	}
	return cart, nil
}

// AddItem добавляет позицию или увеличивает количество существующей
// Цена и атрибуты фиксируются из каталога на момент добавления
func (s *CartService) AddItem(ctx context.Context, sessionID string, perfumeID, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	perfume, err := s.perfumeRepo.GetByID(ctx, perfumeID)
	if err != nil {
		if errors.Is(err, repository.ErrPerfumeNotFound) {
			return nil, ErrPerfumeNotFound
		}
		return nil, fmt.Errorf("failed to get perfume: %w", err)
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == perfumeID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, entity.CartItem{
			ID:       perfume.ID,
			Name:     perfume.Name,
			Brand:    perfume.Brand,
			Price:    perfume.Price,
			Quantity: quantity,
			Image:    entity.ResolveImageURL(perfume.Image, s.imageBaseURL),
			Size:     perfume.Size,
		})
	}

	return s.save(ctx, sessionID, cart)
}

// UpdateQuantity задает количество позиции; ноль и меньше удаляет ее
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, perfumeID, quantity int) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.removeFromCart(ctx, sessionID, cart, perfumeID)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == perfumeID {
			cart.Items[i].Quantity = quantity
			break
		}
	}

	return s.save(ctx, sessionID, cart)
}

// RemoveItem удаляет позицию из корзины
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, perfumeID int) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.removeFromCart(ctx, sessionID, cart, perfumeID)
}

// ClearCart удаляет корзину сессии целиком
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CheckoutLink собирает deep link WhatsApp с текстом заказа
// Заказ передается менеджеру вручную, платежной интеграции нет
func (s *CartService) CheckoutLink(ctx context.Context, sessionID string) (string, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString("✨ *SAHARA ESSENCE — Mi Selección* ✨\n\n")
	b.WriteString("¡Hola! 👋 Me encantaron estas fragancias y quiero llevarlas:\n\n")
	for _, item := range cart.Items {
		b.WriteString(fmt.Sprintf("✦ %dx %s (%s) — $%s\n", item.Quantity, item.Name, item.Size, formatAmount(item.Price*float64(item.Quantity))))
	}
	b.WriteString(fmt.Sprintf("\n💎 *Inversión Total:* $%s\n\n", formatAmount(cart.Total)))
	b.WriteString("¿Me confirman si las tienen listas para mí? ✨ Quedo atento/a.")

	return fmt.Sprintf("https://wa.me/%s?text=%s", s.whatsappNumber, url.QueryEscape(b.String())), nil
}

func (s *CartService) removeFromCart(ctx context.Context, sessionID string, cart *entity.Cart, perfumeID int) (*entity.Cart, error) {
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != perfumeID {
			items = append(items, item)
		}
	}
	cart.Items = items
	return s.save(ctx, sessionID, cart)
}

func (s *CartService) save(ctx context.Context, sessionID string, cart *entity.Cart) (*entity.Cart, error) {
	cart.Recalculate()
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// formatAmount форматирует сумму с разделителями тысяч: 95000 -> "95,000"
func formatAmount(v float64) string {
	raw := strconv.FormatFloat(v, 'f', -1, 64)

	intPart := raw
	fracPart := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		intPart, fracPart = raw[:i], raw[i:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + strings.Join(groups, ",") + fracPart
}
