// ABOUTME: Parser for model output: JSON optionally wrapped in markdown code fences
// ABOUTME: Treats model output as an untrusted format with an explicit grammar
package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes an optional markdown code fence (with or without a
// "json" language tag) wrapping a payload. Text outside the first fence pair
// is discarded; input without fences passes through trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
	} else {
		return s
	}

	if j := strings.Index(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}

// unmarshalResponse strips fences and decodes the payload into dest. A parse
// failure here is caught by the caller and replaced with a deterministic
// fallback, never surfaced as an operation error.
func unmarshalResponse(raw string, dest any) error {
	payload := StripFences(raw)
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return nil
}

// firstSentences returns the leading n sentences of text, the deterministic
// non-AI fallback for summary-like operations.
func firstSentences(text string, n int) string {
	parts := strings.Split(text, ".")
	if len(parts) <= n {
		return strings.TrimSpace(text)
	}
	out := strings.TrimSpace(strings.Join(parts[:n], "."))
	if out == "" {
		return ""
	}
	return out + "."
}
