// ABOUTME: MCP tool handler implementations for the study companion server
// ABOUTME: Thin argument parsing over the ingestion, retrieval, and engine services
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/smartlearn/companion/internal/engine"
	"github.com/smartlearn/companion/internal/index"
	"github.com/smartlearn/companion/internal/ingest"
	"github.com/smartlearn/companion/internal/models"
	"github.com/smartlearn/companion/internal/retriever"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	ingest    *ingest.Service
	index     *index.Index
	retriever *retriever.Retriever
	engine    *engine.Engine
}

// IngestDocument handles the ingest_document tool.
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	documentID := request.GetString("document_id", "")
	if documentID == "" {
		documentID = ingest.NewDocumentID()
	}

	metadata := map[string]any{
		"user_id": userID,
		"title":   request.GetString("title", documentID),
	}

	// Replace wholesale so no stale chunk survives a content change.
	count, err := h.ingest.Reprocess(ctx, documentID, text, metadata)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"document_id":    documentID,
		"chunks_indexed": count,
	})
}

// SearchDocuments handles the search_documents tool. Document search keeps a
// zero similarity threshold; only the chat retrieval path filters by
// confidence.
func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 5)
	if topK <= 0 {
		return mcp.NewToolResultError("top_k must be positive"), nil
	}

	filters := map[string]any{}
	if docID := request.GetString("document_id", ""); docID != "" {
		filters["document_id"] = docID
	}

	results, err := h.retriever.Search(ctx, query, userID, topK, filters, 0.0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	return jsonResult(results)
}

// Chat handles the chat tool.
func (h *Handlers) Chat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	var history []models.ConversationTurn
	if raw := request.GetString("history", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history must be a JSON array of turns: %v", err)), nil
		}
	}

	filters := map[string]any{}
	if docID := request.GetString("document_id", ""); docID != "" {
		filters["document_id"] = docID
	}

	result, err := h.engine.Chat(ctx, userID, message, history, filters)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}
	return jsonResult(result)
}

// ExplainConcept handles the explain_concept tool.
func (h *Handlers) ExplainConcept(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	concept, err := request.RequireString("concept")
	if err != nil {
		return mcp.NewToolResultError("concept argument is required and must be a string"), nil
	}

	level := request.GetString("level", "intermediate")
	contextText := request.GetString("context", "")

	return jsonResult(h.engine.Explain(ctx, concept, level, contextText))
}

// Summarize handles the summarize tool.
func (h *Handlers) Summarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	return jsonResult(h.engine.Summarize(ctx, text))
}

// ExtractConcepts handles the extract_concepts tool.
func (h *Handlers) ExtractConcepts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	return jsonResult(h.engine.ExtractConcepts(ctx, text))
}

// SuggestFlashcards handles the suggest_flashcards tool.
func (h *Handlers) SuggestFlashcards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	count := request.GetInt("count", 5)
	cards := h.engine.SuggestFlashcards(ctx, text, count)
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return jsonResult(map[string]any{"suggestions": cards})
}

// DeleteDocument handles the delete_document tool.
func (h *Handlers) DeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}

	deleted, err := h.ingest.DeleteIndex(documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"document_id": documentID,
		"deleted":     deleted,
	})
}

// IndexStats handles the index_stats tool.
func (h *Handlers) IndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.index.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}
	return jsonResult(stats)
}

// jsonResult marshals a payload into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
