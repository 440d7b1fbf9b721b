// ABOUTME: Conversation engine: grounded chat (blocking and streaming) and study operations
// ABOUTME: Selects one backend per instance and degrades totally when none is configured
package engine

import (
	"context"
	"io"

	"github.com/smartlearn/companion/internal/llm"
	"github.com/smartlearn/companion/internal/models"
)

// Degraded-mode responses. Every public operation returns a well-formed
// result even with zero configured backends.
const (
	apologyResponse      = "I apologize, but the AI service is not configured. Please add your API key in the settings."
	configHint           = "Configure an API key in your .env file"
	generationFailed     = "I encountered an error generating a response. Please try again."
	fallbackSentences    = 5
	degradedSentences    = 3
	defaultHistoryWindow = 10
)

// Retriever is the retrieval surface the engine consumes; nil disables RAG.
type Retriever interface {
	Retrieve(ctx context.Context, query, userID string, filters map[string]any) (string, []models.SourceCitation, error)
}

// Engine answers study questions grounded in retrieved document context. The
// generation backend is chosen once at construction; there is no per-message
// re-selection or failover.
type Engine struct {
	generator     llm.Generator // nil in degraded mode
	retriever     Retriever
	historyWindow int
}

// New creates an Engine. A nil generator puts the engine in degraded mode:
// every operation returns its fixed fallback instead of failing.
func New(generator llm.Generator, retriever Retriever) *Engine {
	return &Engine{
		generator:     generator,
		retriever:     retriever,
		historyWindow: defaultHistoryWindow,
	}
}

// SetHistoryWindow bounds how many trailing history turns are kept in the
// prompt. Older turns are silently dropped; there is no summarization.
func (e *Engine) SetHistoryWindow(n int) {
	if n >= 0 {
		e.historyWindow = n
	}
}

// Chat answers a message, grounding it in retrieved context when RAG is
// available. Retrieval failures propagate; generation failures degrade.
func (e *Engine) Chat(ctx context.Context, userID, message string, history []models.ConversationTurn, filters map[string]any) (models.ChatResult, error) {
	if e.generator == nil {
		return models.ChatResult{
			Response:         apologyResponse,
			SuggestedActions: []string{configHint},
			Degraded:         true,
			DegradedReason:   llm.ErrNoBackend.Error(),
		}, nil
	}

	contextText, sources, err := e.retrieve(ctx, message, userID, filters)
	if err != nil {
		return models.ChatResult{}, err
	}

	response, err := e.generator.Generate(ctx, e.assembleTurns(contextText, history, message))
	if err != nil {
		return models.ChatResult{
			Response:       generationFailed,
			Sources:        sources,
			Degraded:       true,
			DegradedReason: err.Error(),
		}, nil
	}

	return models.ChatResult{
		Response:         response,
		Sources:          sources,
		SuggestedActions: SuggestActions(message),
	}, nil
}

// ChatStream answers a message as a cancellable event stream. If retrieval
// produced sources, a single sources event precedes any tokens. Tokens are
// forwarded in arrival order; a mid-stream backend failure emits exactly one
// error event and terminates the stream. Cancel ctx to abandon the stream;
// the in-flight backend call is released and nothing else is cleaned up.
func (e *Engine) ChatStream(ctx context.Context, userID, message string, history []models.ConversationTurn, filters map[string]any) (<-chan models.ChatEvent, error) {
	if e.generator == nil {
		events := make(chan models.ChatEvent, 1)
		events <- models.ChatEvent{Type: models.EventToken, Token: apologyResponse}
		close(events)
		return events, nil
	}

	contextText, sources, err := e.retrieve(ctx, message, userID, filters)
	if err != nil {
		return nil, err
	}

	turns := e.assembleTurns(contextText, history, message)
	events := make(chan models.ChatEvent)

	go func() {
		defer close(events)

		if len(sources) > 0 {
			if !emit(ctx, events, models.ChatEvent{Type: models.EventSources, Sources: sources}) {
				return
			}
		}

		stream, err := e.generator.GenerateStream(ctx, turns)
		if err != nil {
			emit(ctx, events, models.ChatEvent{Type: models.EventError, Err: err.Error()})
			return
		}
		defer stream.Close()

		for {
			token, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				// Partial tokens already emitted are not retracted.
				emit(ctx, events, models.ChatEvent{Type: models.EventError, Err: err.Error()})
				return
			}
			if !emit(ctx, events, models.ChatEvent{Type: models.EventToken, Token: token}) {
				return
			}
		}
	}()

	return events, nil
}

// Explain generates a leveled explanation of a concept. Backend or parse
// failures fall back to a deterministic non-AI response; the result is
// always well-formed.
func (e *Engine) Explain(ctx context.Context, concept, level, contextText string) models.Explanation {
	if level == "" {
		level = "intermediate"
	}
	if e.generator == nil {
		return models.Explanation{
			Concept:        concept,
			Definition:     concept,
			Explanation:    apologyResponse,
			Degraded:       true,
			DegradedReason: llm.ErrNoBackend.Error(),
		}
	}

	raw, err := e.generator.Generate(ctx, promptTurns(explanationPrompt(concept, level, contextText)))
	if err != nil {
		return explanationFallback(concept, err.Error())
	}

	var payload struct {
		Definition      string   `json:"definition"`
		Explanation     string   `json:"explanation"`
		Examples        []string `json:"examples"`
		Analogies       []string `json:"analogies"`
		Misconceptions  []string `json:"misconceptions"`
		RelatedConcepts []string `json:"related_concepts"`
	}
	if err := unmarshalResponse(raw, &payload); err != nil {
		return explanationFallback(concept, err.Error())
	}

	return models.Explanation{
		Concept:         concept,
		Definition:      payload.Definition,
		Explanation:     payload.Explanation,
		Examples:        payload.Examples,
		Analogies:       payload.Analogies,
		Misconceptions:  payload.Misconceptions,
		RelatedConcepts: payload.RelatedConcepts,
	}
}

// Summarize produces a document summary, falling back to the leading
// sentences of the source text when no backend is available or the output
// cannot be parsed.
func (e *Engine) Summarize(ctx context.Context, text string) models.Summary {
	if e.generator == nil {
		return models.Summary{
			Text:           firstSentences(text, fallbackSentences),
			Degraded:       true,
			DegradedReason: llm.ErrNoBackend.Error(),
		}
	}

	raw, err := e.generator.Generate(ctx, promptTurns(summaryPrompt(text)))
	if err != nil {
		return models.Summary{
			Text:           firstSentences(text, degradedSentences),
			Degraded:       true,
			DegradedReason: err.Error(),
		}
	}

	var payload struct {
		Summary string `json:"summary"`
	}
	if err := unmarshalResponse(raw, &payload); err == nil && payload.Summary != "" {
		return models.Summary{Text: payload.Summary}
	}

	// Unstructured output is still a usable summary.
	return models.Summary{Text: StripFences(raw)}
}

// ExtractConcepts pulls main topics, key terms, and a difficulty level from
// content. Failures yield empty structured fields, never an error.
func (e *Engine) ExtractConcepts(ctx context.Context, text string) models.ConceptSet {
	if e.generator == nil {
		return models.ConceptSet{
			MainTopics:      []string{},
			KeyTerms:        []string{},
			DifficultyLevel: "unknown",
			Degraded:        true,
			DegradedReason:  llm.ErrNoBackend.Error(),
		}
	}

	raw, err := e.generator.Generate(ctx, promptTurns(conceptExtractionPrompt(text)))
	if err != nil {
		return conceptFallback(err.Error())
	}

	var payload models.ConceptSet
	if err := unmarshalResponse(raw, &payload); err != nil {
		return conceptFallback(err.Error())
	}
	if payload.MainTopics == nil {
		payload.MainTopics = []string{}
	}
	if payload.KeyTerms == nil {
		payload.KeyTerms = []string{}
	}
	if payload.DifficultyLevel == "" {
		payload.DifficultyLevel = "unknown"
	}
	return payload
}

// SuggestFlashcards proposes flashcards for the given text. Failures yield
// an empty list.
func (e *Engine) SuggestFlashcards(ctx context.Context, text string, count int) []models.Flashcard {
	if e.generator == nil {
		return nil
	}
	if count <= 0 {
		count = 5
	}

	raw, err := e.generator.Generate(ctx, promptTurns(flashcardPrompt(text, count)))
	if err != nil {
		return nil
	}

	var cards []models.Flashcard
	if err := unmarshalResponse(raw, &cards); err != nil {
		return nil
	}
	return cards
}

// retrieve runs the RAG step when a retriever is configured.
func (e *Engine) retrieve(ctx context.Context, message, userID string, filters map[string]any) (string, []models.SourceCitation, error) {
	if e.retriever == nil {
		return "", nil, nil
	}
	return e.retriever.Retrieve(ctx, message, userID, filters)
}

// assembleTurns builds the prompt: one system turn with the retrieved
// context interpolated, at most the trailing historyWindow turns in original
// order, then the current user message.
func (e *Engine) assembleTurns(contextText string, history []models.ConversationTurn, message string) []models.ConversationTurn {
	turns := make([]models.ConversationTurn, 0, len(history)+2)
	turns = append(turns, models.ConversationTurn{
		Role:    models.RoleSystem,
		Content: chatSystemPrompt(contextText),
	})

	if len(history) > e.historyWindow {
		history = history[len(history)-e.historyWindow:]
	}
	turns = append(turns, history...)

	return append(turns, models.ConversationTurn{
		Role:    models.RoleUser,
		Content: message,
	})
}

// promptTurns wraps a single task prompt as one user turn.
func promptTurns(prompt string) []models.ConversationTurn {
	return []models.ConversationTurn{{Role: models.RoleUser, Content: prompt}}
}

// emit sends an event unless the consumer has gone away.
func emit(ctx context.Context, events chan<- models.ChatEvent, ev models.ChatEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func explanationFallback(concept, reason string) models.Explanation {
	return models.Explanation{
		Concept:         concept,
		Definition:      concept,
		Explanation:     "Unable to generate a detailed explanation right now. Try again, or rephrase the concept.",
		Examples:        []string{},
		RelatedConcepts: []string{},
		Degraded:        true,
		DegradedReason:  reason,
	}
}

func conceptFallback(reason string) models.ConceptSet {
	return models.ConceptSet{
		MainTopics:      []string{},
		KeyTerms:        []string{},
		DifficultyLevel: "unknown",
		Degraded:        true,
		DegradedReason:  reason,
	}
}
