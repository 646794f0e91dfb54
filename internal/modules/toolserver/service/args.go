package service

import (
	"strconv"

	"mudrex_agent/internal/apierr"
)

// Args — плоские типизированные аргументы вызова инструмента.
type Args map[string]any

// String достает строковый аргумент; числа приводятся к строке, чтобы не
// терять "0.001", пришедший как число.
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (a Args) StringDefault(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Required — строковый аргумент, без которого вызов не имеет смысла.
func (a Args) Required(key string) (string, error) {
	s := a.String(key)
	if s == "" {
		return "", argRequiredError(key)
	}
	return s, nil
}

func argRequiredError(key string) error {
	return apierr.Validation("argument " + strconv.Quote(key) + " is required")
}

func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func (a Args) Float(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}
