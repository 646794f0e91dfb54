package normalize

import (
	"fmt"
	"strconv"
)

// MissingFieldError — ни каноническое поле, ни его алиас не пришли в ответе.
// Конструирование записи на этом обязано падать: молчаливый ноль дальше
// превращается в ложное "нет позиции/нет риска".
type MissingFieldError struct {
	Canonical string
	Alias     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: neither %q nor %q present in record", e.Canonical, e.Alias)
}

// Quantity возвращает значение quantity, иначе size.
// API использует оба имени для одного и того же поля.
func Quantity(raw map[string]any) (string, error) {
	return resolve(raw, "quantity", "size")
}

// MarkPrice возвращает значение mark_price, иначе market_price.
func MarkPrice(raw map[string]any) (string, error) {
	return resolve(raw, "mark_price", "market_price")
}

// Identifier выбирает канонический идентификатор инструмента: symbol
// приоритетнее asset_id (legacy-параметр).
func Identifier(symbol, assetID string) (id string, bySymbol bool, err error) {
	if symbol != "" {
		return symbol, true, nil
	}
	if assetID != "" {
		return assetID, false, nil
	}
	return "", false, fmt.Errorf("either symbol or asset_id is required")
}

func resolve(raw map[string]any, canonical, alias string) (string, error) {
	if s, ok := fieldString(raw, canonical); ok {
		return s, nil
	}
	if s, ok := fieldString(raw, alias); ok {
		return s, nil
	}
	return "", &MissingFieldError{Canonical: canonical, Alias: alias}
}

// fieldString приводит значение поля к строке без округления и конверсий.
// nil и пустая строка считаются отсутствием поля.
func fieldString(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}
