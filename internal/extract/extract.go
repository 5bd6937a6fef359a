package extract

import (
	"encoding/json"
	"strings"
)

// Span returns the substring from the first '[' to the last ']' in raw.
// Using the last closing bracket keeps arrays nested inside object fields
// intact. ok is false when no such pair exists.
func Span(raw string) (span string, ok bool) {
	start := strings.Index(raw, "[")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(raw, "]")
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// Records returns the elements of the JSON array found in raw, in source
// order. A missing or malformed array yields an empty, non-nil slice.
func Records(raw string) []json.RawMessage {
	span, ok := Span(raw)
	if !ok {
		return []json.RawMessage{}
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(span), &records); err != nil {
		return []json.RawMessage{}
	}
	if records == nil {
		return []json.RawMessage{}
	}
	return records
}

// Into decodes each element of the array found in raw into T, in source
// order. Fields absent from a record keep their zero value. An element that
// does not decode into T is skipped; the rest of the set is kept. Types with
// tolerant field decoders therefore lose no records at all.
func Into[T any](raw string) []T {
	records := Records(raw)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
