package record

import (
	"strconv"
	"strings"
)

// Checked lookups over the weakly-typed document trees the providers send.
// Field shapes drift between provider versions, so nothing here ever
// panics: a wrong shape reads as the zero value.

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func getNumber(src map[string]any, key string) (float64, bool) {
	if src == nil {
		return 0, false
	}
	switch typed := src[key].(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func getInt(src map[string]any, key string) int {
	v, ok := getNumber(src, key)
	if !ok {
		return 0
	}
	return int(v)
}

func getBool(src map[string]any, key string) bool {
	if src == nil {
		return false
	}
	switch typed := src[key].(type) {
	case bool:
		return typed
	case float64:
		return typed != 0
	case int:
		return typed != 0
	default:
		return false
	}
}

func getMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	m, _ := src[key].(map[string]any)
	return m
}

func getSlice(src map[string]any, key string) []any {
	if src == nil {
		return nil
	}
	s, _ := src[key].([]any)
	return s
}

func getStringSlice(src map[string]any, key string) []string {
	items := getSlice(src, key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// digChain walks nested maps: digChain(m, "a", "b") == m["a"]["b"].
func digChain(src map[string]any, keys ...string) map[string]any {
	current := src
	for _, key := range keys {
		current = getMap(current, key)
		if current == nil {
			return nil
		}
	}
	return current
}

// firstInt extracts the first integer run from a display string like
// "123 apps"; missing digits report false.
func firstInt(raw string) (int, bool) {
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			v, err := strconv.Atoi(raw[start:i])
			return v, err == nil
		}
	}
	if start >= 0 {
		v, err := strconv.Atoi(raw[start:])
		return v, err == nil
	}
	return 0, false
}
