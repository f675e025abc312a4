// Package jsonx extracts JSON payloads from free-form LLM output.
//
// Model responses wrap JSON in prose, markdown fences, or both. The
// extraction here is deliberately defensive: strip fences first, then
// scan for a balanced object by brace counting from the first '{'
// (a naive regex breaks on nested objects).
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrNoObject means no '{' (or '[' for arrays) was found.
	ErrNoObject = errors.New("no JSON object found in response")
	// ErrUnbalanced means braces never closed before the text ended.
	ErrUnbalanced = errors.New("malformed JSON: unbalanced braces")
)

// StripFences removes a surrounding markdown code fence if present,
// preferring a ```json fence over a bare ``` one.
func StripFences(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced JSON object in s, scanning
// by brace count from the first '{'.
func ExtractObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoObject
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalanced
}

// ExtractArray returns the outermost JSON array in s: everything from
// the first '[' to the last ']'.
func ExtractArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", ErrNoObject
	}
	end := strings.LastIndexByte(s, ']')
	if end <= start {
		return "", ErrUnbalanced
	}
	return s[start : end+1], nil
}

// DecodeObject strips fences, extracts the first balanced object, and
// unmarshals it into v.
func DecodeObject(s string, v any) error {
	obj, err := ExtractObject(StripFences(s))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(obj), v)
}

// DecodeArray strips fences, extracts the outermost array, and
// unmarshals it into v.
func DecodeArray(s string, v any) error {
	arr, err := ExtractArray(StripFences(s))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(arr), v)
}
