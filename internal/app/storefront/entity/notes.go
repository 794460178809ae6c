package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Notes - ольфакторная пирамида парфюма
// Исторически колонка notes приходила в четырех вариантах: нормальный объект,
// JSON-строка с тем же объектом, плоский список и одиночный скаляр в кавычках.
// Парсер сводит все к трем спискам, счищая артефакты двойного кодирования.
// Порядок разбора фиксированный: объект -> массив -> JSON-строка -> список через запятую
type Notes struct {
	Top    []string `json:"top"`
	Middle []string `json:"middle"`
	Base   []string `json:"base"`
}

// EmptyNotes возвращает нормализованную пустую пирамиду
func EmptyNotes() Notes {
	return Notes{Top: []string{}, Middle: []string{}, Base: []string{}}
}

// IsEmpty сообщает, пуста ли пирамида целиком
func (n Notes) IsEmpty() bool {
	return len(n.Top) == 0 && len(n.Middle) == 0 && len(n.Base) == 0
}

// UnmarshalJSON нормализует любое из исторических представлений notes
// Разбор тотальный: некорректный вход дает пустую пирамиду, а не ошибку
func (n *Notes) UnmarshalJSON(data []byte) error {
	*n = parseNotesValue(data)
	return nil
}

// ParseNotesText нормализует строковое представление notes
// (значение ячейки таблицы или дважды закодированный JSON)
func ParseNotesText(raw string) Notes {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EmptyNotes()
	}

	// Сначала пробуем как JSON: объект или массив
	trimmed := raw
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if notes, ok := tryParseNotesJSON([]byte(trimmed)); ok {
			return notes
		}
	}

	// Не JSON: список через запятую (или одиночный скаляр)
	parts := splitAndClean(raw)
	return Notes{Top: parts, Middle: []string{}, Base: []string{}}
}

func parseNotesValue(data []byte) Notes {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return EmptyNotes()
	}

	if notes, ok := tryParseNotesJSON(data); ok {
		return notes
	}

	// JSON-строка: содержимое разбираем еще раз как текст
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return ParseNotesText(s)
	}

	// Скаляр другого типа (число, bool) ничего не значит для пирамиды
	return EmptyNotes()
}

// tryParseNotesJSON обрабатывает первые два варианта грамматики:
// объект трех списков и плоский массив (все в top)
func tryParseNotesJSON(data []byte) (Notes, bool) {
	switch {
	case strings.HasPrefix(string(data), "{"):
		var obj struct {
			Top    []interface{} `json:"top"`
			Middle []interface{} `json:"middle"`
			Base   []interface{} `json:"base"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return Notes{}, false
		}
		return Notes{
			Top:    cleanList(obj.Top),
			Middle: cleanList(obj.Middle),
			Base:   cleanList(obj.Base),
		}, true
	case strings.HasPrefix(string(data), "["):
		var arr []interface{}
		if err := json.Unmarshal(data, &arr); err != nil {
			return Notes{}, false
		}
		return Notes{Top: cleanList(arr), Middle: []string{}, Base: []string{}}, true
	}
	return Notes{}, false
}

// Value сериализует пирамиду в jsonb
func (n Notes) Value() (driver.Value, error) {
	if n.Top == nil {
		n.Top = []string{}
	}
	if n.Middle == nil {
		n.Middle = []string{}
	}
	if n.Base == nil {
		n.Base = []string{}
	}
	return json.Marshal(n)
}

// Scan читает пирамиду из jsonb колонки
func (n *Notes) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*n = EmptyNotes()
		return nil
	case []byte:
		*n = parseNotesValue(v)
		return nil
	case string:
		*n = parseNotesValue([]byte(v))
		return nil
	default:
		return fmt.Errorf("unsupported notes column type %T", value)
	}
}

// cleanList приводит список произвольных значений к чистым строкам
func cleanList(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		cleaned := cleanToken(fmt.Sprintf("%v", item))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// splitAndClean режет строку по запятым и чистит каждый токен
func splitAndClean(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		cleaned := cleanToken(p)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// cleanToken счищает с токена артефакты двойного кодирования JSON:
// обрамляющие кавычки, экранированные кавычки, обратные слеши
// и остаточные скобки. Каждое правило применяется ровно один раз
func cleanToken(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if len(cleaned) >= 2 {
		if (strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`)) ||
			(strings.HasPrefix(cleaned, "'") && strings.HasSuffix(cleaned, "'")) {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}

	cleaned = strings.ReplaceAll(cleaned, `\"`, "")
	cleaned = strings.ReplaceAll(cleaned, `\'`, "")
	cleaned = strings.ReplaceAll(cleaned, `\`, "")

	cleaned = strings.TrimPrefix(cleaned, "[")
	cleaned = strings.TrimSuffix(cleaned, "]")
	cleaned = strings.TrimPrefix(cleaned, "{")
	cleaned = strings.TrimSuffix(cleaned, "}")
	cleaned = strings.Trim(cleaned, `"`)

	return strings.TrimSpace(cleaned)
}
