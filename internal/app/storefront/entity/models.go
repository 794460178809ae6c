package entity

import (
	"strings"
	"time"
)

// Perfume представляет один товар каталога
// Таблица perfumes - единственное публичное хранилище; embedding заполняется
// асинхронно фоновым процессом и может быть NULL
type Perfume struct {
	ID            int     `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Gender        string  `json:"gender"`        // По умолчанию "Unisex"
	Family        string  `json:"family"`        // По умолчанию "Sin clasificar"
	Concentration string  `json:"concentration"` // edt, edp, parfum
	Longevity     string  `json:"longevity"`
	Sillage       string  `json:"sillage"`
	Notes         Notes   `json:"notes" gorm:"type:jsonb"`
	Season        TagSet  `json:"season" gorm:"type:jsonb"`
	Occasion      TagSet  `json:"occasion" gorm:"type:jsonb"`
	Size          string  `json:"size"` // По умолчанию "100ml"
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	Description   string  `json:"description"`
	Story         string  `json:"story"`
	// Вектор для семантического поиска (pgvector), NULL пока не сгенерирован
	Embedding Vector    `json:"embedding,omitempty" gorm:"type:vector(768)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (Perfume) TableName() string {
	return "perfumes"
}

// ResolveImageURL возвращает абсолютный URL изображения
// Значение image может быть абсолютным URL или ключом в публичном бакете
func ResolveImageURL(image, baseURL string) string {
	if image == "" {
		return "/placeholder.svg"
	}
	if strings.HasPrefix(image, "http") {
		return image
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + image
}

// CartItem - одна позиция корзины с зафиксированной ценой
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Size     string  `json:"size"`
}

// Cart - сессионная корзина
// Total и ItemCount всегда производные от Items и пересчитываются
// при каждой мутации, отдельно они никогда не сохраняются
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// Recalculate пересчитывает производные поля корзины из Items
func (c *Cart) Recalculate() {
	var total float64
	var count int
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
		count += item.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

// ChatMessage - одно сообщение диалога, живет только в рамках сессии клиента
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// CatalogEvent представляет событие изменения каталога для Kafka
type CatalogEvent struct {
	EventType string    `json:"event_type"` // PERFUME_INSERTED, PERFUME_UPDATED, PERFUME_DELETED
	PerfumeID int       `json:"perfume_id"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncStats - итог одного прогона синхронизации каталога
type SyncStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Total    int `json:"total"`
}
