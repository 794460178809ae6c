package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TagSet - многозначное фильтруемое поле (season, occasion)
// На входе бывает массивом строк или строкой со значениями через запятую,
// наружу всегда отдается массивом
type TagSet []string

// ParseTagSet нормализует строковое представление набора тегов
func ParseTagSet(raw string) TagSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TagSet{}
	}

	// JSON-массив (в том числе дважды закодированный из таблицы)
	if strings.HasPrefix(raw, "[") {
		var arr []interface{}
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return TagSet(cleanList(arr))
		}
		// Скобки есть, но JSON битый: срезаем их и режем по запятым
		raw = strings.TrimPrefix(raw, "[")
		raw = strings.TrimSuffix(raw, "]")
	}

	return TagSet(splitAndClean(raw))
}

// Contains проверяет вхождение тега без учета регистра
func (t TagSet) Contains(value string) bool {
	for _, tag := range t {
		if strings.EqualFold(tag, value) {
			return true
		}
	}
	return false
}

// UnmarshalJSON принимает массив строк или строку через запятую
func (t *TagSet) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*t = TagSet{}
		return nil
	}

	if strings.HasPrefix(string(data), "[") {
		var arr []interface{}
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*t = TagSet(cleanList(arr))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTagSet(s)
	return nil
}

// MarshalJSON всегда отдает массив, даже для пустого набора
func (t TagSet) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// Value сериализует набор в jsonb
func (t TagSet) Value() (driver.Value, error) {
	return t.MarshalJSON()
}

// Scan читает набор из jsonb колонки или строковой колонки
func (t *TagSet) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TagSet{}
		return nil
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	default:
		return fmt.Errorf("unsupported tag set column type %T", value)
	}
}

func (t *TagSet) scanText(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*t = TagSet{}
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		return t.UnmarshalJSON([]byte(raw))
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			*t = ParseTagSet(s)
			return nil
		}
	}
	*t = ParseTagSet(raw)
	return nil
}
