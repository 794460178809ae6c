package entity

import (
	"encoding/json"
	"strings"
)

// ChatRequest - запрос одного хода диалога
// Активная реплика пользователя - content последнего сообщения
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// LastUserMessage возвращает активную реплику пользователя
func (r *ChatRequest) LastUserMessage() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}

// RecommendedPerfume - парфюм с персональным обоснованием для ответа чата
type RecommendedPerfume struct {
	Perfume
	Similarity float64 `json:"similarity,omitempty"`
	Reason     string  `json:"reason"`
}

// ChatResponse - ответ ассистента на один ход диалога
// На фатальной ошибке content содержит фиксированное извинение персоны,
// data пуст и деталей ошибки в payload нет
type ChatResponse struct {
	Role    string               `json:"role"`
	Content string               `json:"content"`
	Data    []RecommendedPerfume `json:"data"`
}

// Preferences - структурированные предпочтения, извлеченные из реплики
// Отсутствие поля, null и пустая строка эквивалентны: все значат "без фильтра"
type Preferences struct {
	Occasion      *string `json:"occasion"`
	Family        *string `json:"family"`
	Gender        *string `json:"gender"`
	Concentration *string `json:"concentration"`
	Season        *string `json:"season"`
}

// ValueOr возвращает значение указателя или запасное значение
func ValueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// ParsePreferences разбирает сырой ответ модели на извлечение предпочтений
// Модель любит оборачивать JSON в code fence, поэтому маркеры срезаются до разбора
// Ошибка разбора не фатальна для пайплайна: вызывающий деградирует к пустым предпочтениям
func ParsePreferences(raw string) (Preferences, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var prefs Preferences
	if err := json.Unmarshal([]byte(cleaned), &prefs); err != nil {
		return Preferences{}, err
	}
	prefs.normalize()
	return prefs, nil
}

// normalize приводит пустые и пробельные значения к nil
// Модель иногда отдает "" вместо null; пустая строка - это не фильтр,
// иначе occasion @> '[""]' молча схлопнет выдачу в ноль
func (p *Preferences) normalize() {
	p.Occasion = blankToNil(p.Occasion)
	p.Family = blankToNil(p.Family)
	p.Gender = blankToNil(p.Gender)
	p.Concentration = blankToNil(p.Concentration)
	p.Season = blankToNil(p.Season)
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// CatalogFilter - опциональные фильтры чтения каталога
// Сентинелы "Todos"/"Todas" из UI каталога означают отсутствие фильтра
type CatalogFilter struct {
	Gender   string
	Family   string
	Occasion string
	Brand    string
	Limit    int
}

// PerfumeListResponse - ответ чтения каталога
type PerfumeListResponse struct {
	Perfumes []Perfume `json:"perfumes"`
}

// FacetsResponse - уникальные значения фильтров каталога
type FacetsResponse struct {
	Brands    []string `json:"brands"`
	Families  []string `json:"families"`
	Occasions []string `json:"occasions"`
}

// SyncResponse - операторский ответ триггера синхронизации
// В отличие от чата этот endpoint отдает сырой текст ошибки
type SyncResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Stats   *SyncStats `json:"stats,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// BackfillStats - итог прогона генерации недостающих эмбеддингов
type BackfillStats struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
}

// AddCartItemRequest - добавление позиции в корзину
type AddCartItemRequest struct {
	PerfumeID int `json:"id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateCartItemRequest - смена количества; ноль и меньше удаляет позицию
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutResponse - ссылка передачи заказа в WhatsApp
type CheckoutResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
