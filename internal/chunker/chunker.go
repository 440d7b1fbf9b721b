// ABOUTME: Chunker splits raw document text into bounded, overlapping chunks
// ABOUTME: Paragraph-first greedy accumulation with a sentence-level fallback
package chunker

import "strings"

// Default chunking parameters.
const (
	DefaultMaxChars = 500
	DefaultOverlap  = 50
	DefaultMinChunk = 50
)

// Chunker produces ordered, bounded chunks from document text. Splitting is
// pure and deterministic: the same text and parameters always yield the same
// chunk sequence.
type Chunker struct {
	MaxChars int
	Overlap  int
	MinChunk int
}

// New creates a Chunker with the given bounds. Non-positive maxChars falls
// back to the default; overlap is clamped below maxChars.
func New(maxChars, overlap, minChunk int) *Chunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 2
	}
	if minChunk < 0 {
		minChunk = 0
	}
	return &Chunker{MaxChars: maxChars, Overlap: overlap, MinChunk: minChunk}
}

// Split chunks text on paragraph boundaries, greedily packing paragraphs up
// to MaxChars and seeding each new chunk with the tail of the previous one.
// Documents without paragraph breaks fall back to sentence boundaries.
// Chunks whose trimmed length is below MinChunk are dropped, except when the
// whole source text is itself below the floor.
func (c *Chunker) Split(text string) []string {
	text = normalize(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := c.accumulate(splitParagraphs(text), "\n\n")

	// A single oversized chunk means the document had no usable paragraph
	// breaks; redo the pass over sentence boundaries.
	if len(chunks) == 1 && len(chunks[0]) > c.MaxChars {
		chunks = c.accumulate(splitSentences(text), " ")
	}

	return c.dropFragments(chunks)
}

// accumulate greedily packs parts into chunks bounded by MaxChars, joining
// with sep. When a chunk closes, the next one starts with its last Overlap
// characters so local context survives the boundary.
func (c *Chunker) accumulate(parts []string, sep string) []string {
	var chunks []string
	current := ""

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if current == "" {
			current = part
			continue
		}
		if len(current)+len(sep)+len(part) <= c.MaxChars {
			current = current + sep + part
			continue
		}
		chunks = append(chunks, current)
		if tail := overlapTail(current, c.Overlap); tail != "" {
			current = tail + sep + part
		} else {
			current = part
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// dropFragments removes chunks below the minimum floor. Tiny fragments add
// index noise without retrieval value.
func (c *Chunker) dropFragments(chunks []string) []string {
	if len(chunks) == 1 {
		// A short document is still one valid chunk.
		if strings.TrimSpace(chunks[0]) == "" {
			return nil
		}
		return chunks
	}
	var kept []string
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk)) >= c.MinChunk {
			kept = append(kept, chunk)
		}
	}
	return kept
}

// overlapTail returns the last n characters of s, aligned to a rune boundary.
func overlapTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// normalize collapses Windows line endings so paragraph detection is uniform.
func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// splitParagraphs splits text on blank-line boundaries.
func splitParagraphs(text string) []string {
	return strings.Split(text, "\n\n")
}

// splitSentences splits text after ". " boundaries, keeping the terminator
// with its sentence.
func splitSentences(text string) []string {
	return strings.SplitAfter(text, ". ")
}
