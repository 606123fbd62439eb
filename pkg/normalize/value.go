// Package normalize coerces statistics, customer and review payloads into fixed shapes. Every
// function accepts the decoded JSON (maps, slices, numbers, strings) it was handed, consults a
// documented list of fallback field names, and never returns nil lists. Each is idempotent:
// feeding back its own output, re-encoded as JSON, yields the same value.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Decode turns raw JSON into the generic value the normalizers take.
func Decode(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Generic re-encodes a typed value as generic JSON.
func Generic(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Decode(data)
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// unwrapData descends through {"data": ...} wrappers.
func unwrapData(v any) any {
	for i := 0; i < 4; i++ {
		m := obj(v)
		if m == nil {
			return v
		}
		inner, ok := m["data"]
		if !ok || inner == nil {
			return v
		}
		switch inner.(type) {
		case map[string]any, []any:
			v = inner
		default:
			return v
		}
	}
	return v
}

func first(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// num returns the first numeric value under keys, or 0.
func num(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func integer(m map[string]any, keys ...string) int64 {
	return int64(math.Round(num(m, keys...)))
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch s := m[k].(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

func list(v any, keys ...string) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	m := obj(v)
	for _, k := range keys {
		if arr, ok := m[k].([]any); ok {
			return arr
		}
	}
	return nil
}

// nested reads keys from the object under parent (e.g. customer.fullname).
func nested(m map[string]any, parent string, keys ...string) string {
	return str(obj(m[parent]), keys...)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
