// ABOUTME: Prompt templates for chat, explanation, summary, concept and flashcard generation
// ABOUTME: All structured-output prompts demand bare JSON; parsing still tolerates fences
package engine

import "fmt"

// Caps on how much source text is interpolated into a prompt. Unbounded
// context is a cost/latency hazard, not a correctness one.
const (
	chatContextCap   = 5000
	promptContextCap = 5000
	promptContentCap = 10000
)

const chatSystemTemplate = `You are a helpful AI learning assistant for the Smart Learning Companion app.

Your capabilities:
- Help users understand concepts from their uploaded documents
- Answer questions about study materials
- Suggest study strategies and techniques
- Provide encouragement and motivation

CONTEXT (User's study materials):
%s

GUIDELINES:
1. Be encouraging and supportive
2. Provide clear, accurate explanations
3. Reference the user's materials when relevant
4. Suggest flashcards or quizzes for concepts they're struggling with
5. Keep responses concise but helpful

If you don't have enough context to answer accurately, ask clarifying questions or suggest the user upload relevant materials.`

const explanationTemplate = `You are an expert teacher explaining concepts at different levels.

CONCEPT: %s

KNOWLEDGE CONTEXT (if available):
%s

EXPLANATION LEVEL: %s
- eli5: Explain like I'm 5 - use very simple language, everyday analogies
- intermediate: Standard explanation with some technical terms
- advanced: Detailed technical explanation with depth

REQUIREMENTS:
1. Start with a clear, concise definition
2. Provide 2-3 real-world examples
3. Use analogies or metaphors when helpful
4. Mention common misconceptions if relevant
5. Suggest 3-5 related concepts to explore

OUTPUT FORMAT (JSON):
{
  "definition": "Clear definition of the concept",
  "explanation": "Detailed explanation appropriate for the level",
  "examples": ["Example 1", "Example 2", "Example 3"],
  "analogies": ["Analogy if helpful"],
  "misconceptions": ["Common mistake 1"],
  "related_concepts": ["Related concept 1", "Related concept 2"]
}

Output only valid JSON.`

const summaryTemplate = `Summarize the following document content concisely.

CONTENT:
%s

REQUIREMENTS:
1. Provide a brief overview (2-3 sentences)
2. List the main topics covered
3. Extract 10-15 key concepts/terms
4. Identify the difficulty level of the content

OUTPUT FORMAT (JSON):
{
  "summary": "Brief overview of the document",
  "main_topics": ["Topic 1", "Topic 2"],
  "key_concepts": ["Concept 1", "Concept 2"],
  "difficulty_level": "beginner|intermediate|advanced",
  "estimated_study_time_minutes": 30
}

Output only valid JSON.`

const conceptExtractionTemplate = `Analyze this content and extract:
1. Main topics covered (3-5 topics)
2. Key terms and concepts (10-15 terms)
3. Difficulty level (beginner/intermediate/advanced)

Content:
%s

Output format (JSON):
{
  "main_topics": ["topic1", "topic2"],
  "key_terms": ["term1", "term2"],
  "difficulty_level": "intermediate"
}

Output only valid JSON.`

const flashcardTemplate = `You are an expert educator creating high-quality flashcards for effective learning.

Analyze the following content and create %d flashcards.

CONTENT:
%s

REQUIREMENTS:
1. Each flashcard should test ONE specific concept
2. Questions should be clear, specific, and unambiguous
3. Answers should be concise but complete
4. Include difficulty ratings based on concept complexity
5. Add relevant tags for categorization

DIFFICULTY GUIDELINE:
- easy: Basic definitions, simple facts
- medium: Understanding relationships, applying concepts
- hard: Analysis, synthesis, complex problem-solving

OUTPUT FORMAT (JSON array):
[
  {
    "question": "Clear, specific question",
    "answer": "Concise but complete answer",
    "hint": "Optional hint to help recall",
    "difficulty": "easy|medium|hard",
    "tags": ["topic1", "topic2"]
  }
]

Generate exactly %d flashcards. Output only valid JSON.`

func chatSystemPrompt(contextText string) string {
	if contextText == "" {
		contextText = "No specific documents loaded."
	}
	return fmt.Sprintf(chatSystemTemplate, capRunes(contextText, chatContextCap))
}

func explanationPrompt(concept, level, contextText string) string {
	if contextText == "" {
		contextText = "No additional context provided."
	}
	return fmt.Sprintf(explanationTemplate, concept, capRunes(contextText, promptContextCap), level)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(summaryTemplate, capRunes(content, promptContentCap))
}

func conceptExtractionPrompt(content string) string {
	return fmt.Sprintf(conceptExtractionTemplate, capRunes(content, promptContentCap))
}

func flashcardPrompt(content string, count int) string {
	return fmt.Sprintf(flashcardTemplate, count, content, count)
}

// capRunes bounds prompt interpolation on a rune boundary.
func capRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
