// ABOUTME: MCP tool definitions and registration for the study companion server
// ABOUTME: Exposes ingestion, search, chat, and study operations as tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartlearn/companion/internal/engine"
	"github.com/smartlearn/companion/internal/index"
	"github.com/smartlearn/companion/internal/ingest"
	"github.com/smartlearn/companion/internal/retriever"
)

// RegisterTools registers all study companion tools with the server.
func RegisterTools(server *mcpserver.MCPServer, ing *ingest.Service, idx *index.Index, retr *retriever.Retriever, eng *engine.Engine) *Handlers {
	handlers := &Handlers{
		ingest:    ing,
		index:     idx,
		retriever: retr,
		engine:    eng,
	}

	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Chunk and index a document's text so it becomes searchable study material. Replaces any previously indexed content for the same document_id.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier; generated when omitted",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Owner of the document",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Document title used in source citations",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Plain text content to index",
				},
			},
			Required: []string{"user_id", "text"},
		},
	}, handlers.IngestDocument)

	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Semantic search across a user's indexed documents. Returns scored chunks with metadata.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose documents to search",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional: restrict the search to one document",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query", "user_id"},
		},
	}, handlers.SearchDocuments)

	server.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Ask the learning assistant a question, grounded in the user's indexed documents.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "User message",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose documents ground the answer",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional: ground the answer in one document only",
				},
				"history": map[string]interface{}{
					"type":        "string",
					"description": "Optional JSON array of prior turns: [{\"role\",\"content\"}]",
				},
			},
			Required: []string{"message", "user_id"},
		},
	}, handlers.Chat)

	server.AddTool(mcp.Tool{
		Name:        "explain_concept",
		Description: "Explain a concept at a chosen level (eli5, intermediate, advanced).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"concept": map[string]interface{}{
					"type":        "string",
					"description": "Concept to explain",
				},
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Explanation level (default: intermediate)",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Optional supporting context from documents",
				},
			},
			Required: []string{"concept"},
		},
	}, handlers.ExplainConcept)

	server.AddTool(mcp.Tool{
		Name:        "summarize",
		Description: "Summarize text content.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to summarize",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.Summarize)

	server.AddTool(mcp.Tool{
		Name:        "extract_concepts",
		Description: "Extract main topics, key terms, and difficulty level from text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to analyze",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.ExtractConcepts)

	server.AddTool(mcp.Tool{
		Name:        "suggest_flashcards",
		Description: "Suggest flashcards for the given text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Source text for the flashcards",
				},
				"count": map[string]interface{}{
					"type":        "number",
					"description": "How many flashcards to suggest (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"text"},
		},
	}, handlers.SuggestFlashcards)

	server.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a document's indexed chunks. Deleting an absent document is a no-op.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Document to remove from the index",
				},
			},
			Required: []string{"document_id"},
		},
	}, handlers.DeleteDocument)

	server.AddTool(mcp.Tool{
		Name:        "index_stats",
		Description: "Report the collection's record count and embedding dimension.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStats)

	return handlers
}
