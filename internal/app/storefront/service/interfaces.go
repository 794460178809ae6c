package service

import (
	"context"

	"saharaessence/internal/app/storefront/entity"
)

// serviceName - метка сервиса для метрик
const serviceName = "storefront"

// RecommendationServiceInterface - диалоговый подбор парфюмов
type RecommendationServiceInterface interface {
	Chat(ctx context.Context, messages []entity.ChatMessage) (*entity.ChatResponse, error)
}

// CatalogServiceInterface - чтение каталога
type CatalogServiceInterface interface {
	ListPerfumes(ctx context.Context, filter entity.CatalogFilter) ([]entity.Perfume, error)
	GetPerfume(ctx context.Context, id int) (*entity.Perfume, error)
	GetFacets(ctx context.Context) (*entity.FacetsResponse, error)
}

// CartServiceInterface - сессионные корзины и передача заказа в WhatsApp
type CartServiceInterface interface {
	GetCart(ctx context.Context, sessionID string) (*entity.Cart, error)
	AddItem(ctx context.Context, sessionID string, perfumeID, quantity int) (*entity.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, perfumeID, quantity int) (*entity.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, perfumeID int) (*entity.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
	CheckoutLink(ctx context.Context, sessionID string) (string, error)
}

// SyncServiceInterface - синхронизация каталога из таблицы-источника
// и фоновая генерация недостающих эмбеддингов
type SyncServiceInterface interface {
	Run(ctx context.Context) (*entity.SyncStats, error)
	BackfillEmbeddings(ctx context.Context) (*entity.BackfillStats, error)
}
