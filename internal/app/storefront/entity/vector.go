package entity

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Vector - эмбеддинг парфюма для семантического поиска
// Хранится в pgvector колонке; пустой вектор означает NULL
type Vector []float32

// Value сериализует вектор в текстовый литерал pgvector: [0.1,0.2,...]
func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return v.String(), nil
}

// String возвращает литерал pgvector
func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Scan читает вектор из pgvector колонки
func (v *Vector) Scan(value interface{}) error {
	switch raw := value.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		return v.parse(string(raw))
	case string:
		return v.parse(raw)
	default:
		return fmt.Errorf("unsupported vector column type %T", value)
	}
}

func (v *Vector) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*v = nil
		return nil
	}
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		*v = Vector{}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(Vector, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("invalid vector element %q: %w", p, err)
		}
		out = append(out, float32(f))
	}
	*v = out
	return nil
}
