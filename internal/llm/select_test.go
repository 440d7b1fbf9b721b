// ABOUTME: Tests for backend selection and placeholder credential detection
// ABOUTME: Table-driven over the placeholder grammar and candidate ordering
package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/smartlearn/companion/internal/models"
)

type stubGenerator struct {
	name string
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, turns []models.ConversationTurn) (string, error) {
	return "", nil
}

func (s *stubGenerator) GenerateStream(ctx context.Context, turns []models.ConversationTurn) (TokenStream, error) {
	return nil, nil
}

func candidate(name, key string) Candidate {
	return Candidate{
		Name:   name,
		APIKey: key,
		New: func() (Generator, error) {
			return &stubGenerator{name: name}, nil
		},
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"your-api-key-here", true},
		{"your-openai-api-key", true},
		{"your-google-api-key", true},
		{"changeme", true},
		{"CHANGEME", true},
		{"sk-...", true},
		{"  your-api-key-here  ", true},
		{"sk-real-looking-key-12345", false},
		{"AIzaSyRealKey", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.key), func(t *testing.T) {
			if got := IsPlaceholder(tt.key); got != tt.want {
				t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSelect_FirstUsableCandidateWins(t *testing.T) {
	gen, err := Select([]Candidate{
		candidate("openai", "sk-real-key"),
		candidate("gemini", "real-gemini-key"),
	})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if gen.Name() != "openai" {
		t.Errorf("selected %q, want openai", gen.Name())
	}
}

func TestSelect_SkipsPlaceholderCredentials(t *testing.T) {
	gen, err := Select([]Candidate{
		candidate("openai", "your-openai-api-key"),
		candidate("gemini", "real-gemini-key"),
	})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if gen.Name() != "gemini" {
		t.Errorf("selected %q, want gemini", gen.Name())
	}
}

func TestSelect_SkipsConstructorFailures(t *testing.T) {
	failing := Candidate{
		Name:   "openai",
		APIKey: "sk-real-key",
		New: func() (Generator, error) {
			return nil, fmt.Errorf("init failed")
		},
	}

	gen, err := Select([]Candidate{failing, candidate("gemini", "real-gemini-key")})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if gen.Name() != "gemini" {
		t.Errorf("selected %q, want gemini", gen.Name())
	}
}

func TestSelect_NoBackend(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
	}{
		{"empty list", nil},
		{"all placeholders", []Candidate{
			candidate("openai", ""),
			candidate("gemini", "your-google-api-key"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := Select(tt.candidates)
			if !errors.Is(err, ErrNoBackend) {
				t.Errorf("error = %v, want ErrNoBackend", err)
			}
			if gen != nil {
				t.Errorf("generator = %v, want nil", gen)
			}
		})
	}
}
