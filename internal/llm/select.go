// ABOUTME: Generation backend selection over a ranked candidate list
// ABOUTME: Skips absent or placeholder credentials; first working provider wins
package llm

import (
	"errors"
	"strings"
)

// ErrNoBackend indicates that no generation provider could be initialized.
// Callers degrade to a fixed response instead of failing the request.
var ErrNoBackend = errors.New("no generation backend configured")

// placeholders are credential values that mean "not configured". They show up
// when users copy .env.example without filling it in.
var placeholders = map[string]bool{
	"your-api-key-here":   true,
	"your-openai-api-key": true,
	"your-google-api-key": true,
	"changeme":            true,
	"sk-...":              true,
}

// IsPlaceholder reports whether an API key is absent or a recognized
// placeholder value.
func IsPlaceholder(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || placeholders[strings.ToLower(key)]
}

// Candidate pairs a provider constructor with its credential, in priority
// order.
type Candidate struct {
	Name   string
	APIKey string
	New    func() (Generator, error)
}

// Select walks candidates in order, skipping those without a usable
// credential, and returns the first provider that initializes. Selection runs
// once per engine instance; there is no per-message re-selection or failover.
func Select(candidates []Candidate) (Generator, error) {
	for _, c := range candidates {
		if IsPlaceholder(c.APIKey) {
			continue
		}
		gen, err := c.New()
		if err != nil {
			continue
		}
		return gen, nil
	}
	return nil, ErrNoBackend
}
