package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoJSON - в ответе модели не нашлось JSON
var ErrNoJSON = errors.New("no JSON in LLM reply")

// StripFences убирает markdown-ограждения ```json ... ``` вокруг ответа
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// DecodeObject разбирает ответ-объект: {"field": value, ...}
func DecodeObject(reply string) (map[string]any, error) {
	cleaned := StripFences(reply)
	if cleaned == "" {
		return nil, ErrNoJSON
	}
	if !gjson.Valid(cleaned) || !gjson.Parse(cleaned).IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrNoJSON, truncate(cleaned, 80))
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return out, nil
}

// DecodeArray разбирает ответ-массив объектов. Объект с единственным
// полем-массивом ({"sections": [...]}) тоже принимается.
func DecodeArray(reply string) ([]map[string]any, error) {
	cleaned := StripFences(reply)
	if cleaned == "" {
		return nil, ErrNoJSON
	}
	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("%w: %s", ErrNoJSON, truncate(cleaned, 80))
	}

	parsed := gjson.Parse(cleaned)
	if parsed.IsObject() {
		var inner gjson.Result
		parsed.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				inner = value
				return false
			}
			return true
		})
		if !inner.Exists() {
			return nil, fmt.Errorf("%w: expected array", ErrNoJSON)
		}
		parsed = inner
	}
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: expected array", ErrNoJSON)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(parsed.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	return out, nil
}

// FormatValue превращает JSON-значение в текст ячейки: строки как есть,
// массивы через sep, остальное - компактный JSON.
func FormatValue(v any, sep string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := FormatValue(item, sep); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
