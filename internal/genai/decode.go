package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InsightItem is one entry of the structured list requested from the model
type InsightItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
}

// DecodeInsightList parses the model's reply into insight items. Replies are
// frequently wrapped in markdown code fences or preceded by prose, so the
// decoder strips fences and falls back to scanning for the first balanced
// JSON array before unmarshalling.
func DecodeInsightList(raw string) ([]InsightItem, error) {
	cleaned := stripCodeFences(raw)

	jsonStr, ok := extractBalancedArray(cleaned)
	if !ok {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var items []InsightItem
	if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
		return nil, fmt.Errorf("unmarshal insight list: %w", err)
	}

	return items, nil
}

// stripCodeFences removes a ```json ... ``` (or bare ```) wrapper when the
// payload is fenced; otherwise the input passes through unchanged.
func stripCodeFences(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return s
}

// extractBalancedArray finds the first balanced top-level JSON array in s,
// tracking string literals and escapes so brackets inside values don't count.
func extractBalancedArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
