// ABOUTME: Generation backend interface and the OpenAI-protocol implementation
// ABOUTME: One provider type serves both OpenAI and Gemini (OpenAI-compatible endpoint)
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smartlearn/companion/internal/models"
)

// DefaultChatModel is the default OpenAI chat model.
const DefaultChatModel = "gpt-4o-mini"

// DefaultGeminiModel is the default model on Google's OpenAI-compatible
// endpoint.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiBaseURL is Google's OpenAI-compatible chat completion endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Generator is a generation backend: it turns an ordered list of role-tagged
// turns into a complete response or a token stream.
type Generator interface {
	Name() string
	Generate(ctx context.Context, turns []models.ConversationTurn) (string, error)
	GenerateStream(ctx context.Context, turns []models.ConversationTurn) (TokenStream, error)
}

// TokenStream yields generation tokens in arrival order. Recv returns io.EOF
// when the backend finishes; Close releases the in-flight call and is safe to
// call at any time.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// chatProvider is a Generator backed by any OpenAI-protocol endpoint.
type chatProvider struct {
	name   string
	model  string
	client *openai.Client
}

// NewOpenAIProvider creates a Generator backed by the OpenAI API.
func NewOpenAIProvider(apiKey, model string) Generator {
	if model == "" {
		model = DefaultChatModel
	}
	return &chatProvider{
		name:   "openai",
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// NewGeminiProvider creates a Generator backed by Google's OpenAI-compatible
// endpoint. baseURL may be empty to use the public endpoint.
func NewGeminiProvider(apiKey, model, baseURL string) Generator {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &chatProvider{
		name:   "gemini",
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (p *chatProvider) Name() string {
	return p.name
}

// Generate performs a blocking chat completion.
func (p *chatProvider) Generate(ctx context.Context, turns []models.ConversationTurn) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toMessages(turns),
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no completion choices", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream opens a token stream for the same conversation.
func (p *chatProvider) GenerateStream(ctx context.Context, turns []models.ConversationTurn) (TokenStream, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toMessages(turns),
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s stream open failed: %w", p.name, err)
	}
	return &completionStream{inner: stream}, nil
}

// completionStream adapts the go-openai stream to TokenStream, skipping
// empty keep-alive deltas.
type completionStream struct {
	inner *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *completionStream) Close() {
	_ = s.inner.Close()
}

// toMessages converts conversation turns to the wire format.
func toMessages(turns []models.ConversationTurn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		role := openai.ChatMessageRoleUser
		switch t.Role {
		case models.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case models.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		msgs[i] = openai.ChatCompletionMessage{Role: role, Content: t.Content}
	}
	return msgs
}
