package util

import (
	"context"
	"time"

	"saharaessence/internal/app/storefront/entity"
)

// TextGenerator - клиент генерации текста (Generative Language API)
// Используется для dependency injection и упрощения тестирования
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// TextEmbedder - клиент эмбеддингов: текст -> вектор фиксированной длины
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) (entity.Vector, error)
}

// SheetSource читает таблицу-источник каталога как грид строк
// Первая строка грида - заголовки колонок
type SheetSource interface {
	ReadGrid(ctx context.Context) ([][]string, error)
}

// PerfumeCache - кеш списка каталога в Redis
type PerfumeCache interface {
	GetPerfumeList(ctx context.Context) ([]entity.Perfume, error)
	SetPerfumeList(ctx context.Context, perfumes []entity.Perfume, ttl time.Duration) error
	InvalidatePerfumeList(ctx context.Context) error
}

// CartStore - хранилище сессионных корзин
// Корзина всегда читается и перезаписывается целиком
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*entity.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *entity.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// MessagePublisher - отправка событий каталога в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
