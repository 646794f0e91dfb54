package models

import (
	"strconv"
	"time"
)

// Хелперы для разбора сырых ответов API (map[string]any после json.Unmarshal).
// Числа апстрим отдаёт строками для сохранения точности, но местами шлёт и
// json-числа — приводим к строке без округления.

func rawString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

func rawStringDefault(raw map[string]any, def string, keys ...string) string {
	if s := rawString(raw, keys...); s != "" {
		return s
	}
	return def
}

func rawBool(raw map[string]any, key string, def bool) bool {
	if v, ok := raw[key].(bool); ok {
		return v
	}
	return def
}

// rawNestedPrice достаёт цену из вложенного объекта ({"stoploss":{"price":...}})
// либо из плоского legacy-поля.
func rawNestedPrice(raw map[string]any, nested, flat string) string {
	if obj, ok := raw[nested].(map[string]any); ok {
		return rawString(obj, "price")
	}
	return rawString(raw, flat)
}

func rawTime(raw map[string]any, key string) time.Time {
	v, ok := raw[key]
	if !ok || v == nil {
		return time.Time{}
	}
	switch t := v.(type) {
	case float64:
		// unix: секунды либо миллисекунды
		if t > 1e12 {
			return time.UnixMilli(int64(t))
		}
		return time.Unix(int64(t), 0)
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts
		}
	}
	return time.Time{}
}
