// ABOUTME: Result types for the conversation engine's study operations
// ABOUTME: Degraded results carry a reason instead of surfacing as errors
package models

// ChatResult is the blocking chat answer. Degraded is set when the engine
// fell back to a canned response (no backend, generation failure) instead of
// failing the request.
type ChatResult struct {
	Response         string           `json:"response"`
	Sources          []SourceCitation `json:"sources,omitempty"`
	SuggestedActions []string         `json:"suggested_actions,omitempty"`
	Degraded         bool             `json:"degraded,omitempty"`
	DegradedReason   string           `json:"degraded_reason,omitempty"`
}

// Explanation is a leveled concept explanation.
type Explanation struct {
	Concept         string   `json:"concept"`
	Definition      string   `json:"definition"`
	Explanation     string   `json:"explanation"`
	Examples        []string `json:"examples"`
	Analogies       []string `json:"analogies,omitempty"`
	Misconceptions  []string `json:"misconceptions,omitempty"`
	RelatedConcepts []string `json:"related_concepts"`
	Degraded        bool     `json:"degraded,omitempty"`
	DegradedReason  string   `json:"degraded_reason,omitempty"`
}

// Summary is a document summary; the fallback form is the leading sentences
// of the source text.
type Summary struct {
	Text           string `json:"summary"`
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// ConceptSet is the structured output of concept extraction.
type ConceptSet struct {
	MainTopics      []string `json:"main_topics"`
	KeyTerms        []string `json:"key_terms"`
	DifficultyLevel string   `json:"difficulty_level"`
	Degraded        bool     `json:"degraded,omitempty"`
	DegradedReason  string   `json:"degraded_reason,omitempty"`
}

// Flashcard is one suggested question/answer card.
type Flashcard struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Hint       string   `json:"hint,omitempty"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags,omitempty"`
}
