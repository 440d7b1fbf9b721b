// ABOUTME: Tests for bounded, overlapping text chunking
// ABOUTME: Verifies determinism, overlap seeding, sentence fallback, and the size floor
package chunker

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	c := New(500, 50, 50)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"tabs and newlines", "\t\n\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if chunks := c.Split(tt.text); chunks != nil {
				t.Errorf("Expected nil chunks, got %d", len(chunks))
			}
		})
	}
}

func TestSplit_ShortDocumentIsOneChunk(t *testing.T) {
	c := New(500, 50, 50)

	text := "Tiny note."
	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("Chunk = %q, want %q", chunks[0], text)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(120, 20, 10)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString(strings.Repeat("word ", 10))
		sb.WriteString("\n\n")
	}
	text := sb.String()

	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs between runs", i)
		}
	}
}

func TestSplit_ParagraphPacking(t *testing.T) {
	c := New(100, 0, 5)

	// Four 40-char paragraphs: two fit per chunk (40+2+40=82), a third
	// overflows (82+2+40 > 100).
	para := strings.Repeat("a", 40)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := c.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("Chunk %d length %d exceeds max", i, len(chunk))
		}
	}
}

func TestSplit_OverlapSeedsNextChunk(t *testing.T) {
	c := New(100, 10, 5)

	para := strings.Repeat("x", 80) + strings.Repeat("y", 10)
	text := para + "\n\n" + strings.Repeat("z", 60)

	chunks := c.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}

	tail := chunks[0][len(chunks[0])-10:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("Second chunk should start with the overlap %q, got %q", tail, chunks[1][:20])
	}
}

func TestSplit_SentenceFallback(t *testing.T) {
	c := New(100, 10, 5)

	// No paragraph breaks, well over max: must fall back to sentence
	// boundaries instead of returning one oversized chunk.
	text := strings.TrimSpace(strings.Repeat("This is a sentence about studying. ", 12))

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected sentence fallback to produce multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(chunk, "sentence") {
			t.Errorf("Chunk %d lost sentence content: %q", i, chunk)
		}
	}
}

func TestSplit_DropsFragmentsBelowFloor(t *testing.T) {
	c := New(50, 0, 10)

	text := strings.Repeat("a", 45) + "\n\n" + "tiny"

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Expected the 4-char fragment to be dropped, got %d chunks: %q", len(chunks), chunks)
	}
	for i := 0; i < len(chunks); i++ {
		if len(strings.TrimSpace(chunks[i])) < 10 {
			t.Errorf("Chunk %d below the floor: %q", i, chunks[i])
		}
	}
}

func TestSplit_CoversSourceText(t *testing.T) {
	c := New(120, 20, 5)

	paras := []string{
		"Photosynthesis converts light into chemical energy.",
		"The light reactions happen in the thylakoid membranes.",
		"The Calvin cycle fixes carbon dioxide into sugar.",
		"Chlorophyll absorbs red and blue light most strongly.",
	}
	text := strings.Join(paras, "\n\n")

	chunks := c.Split(text)
	joined := strings.Join(chunks, "\n\n")
	for _, para := range paras {
		if !strings.Contains(joined, para) {
			t.Errorf("Paragraph missing from chunk output: %q", para)
		}
	}
}

func TestNew_ClampsBadParameters(t *testing.T) {
	c := New(0, -5, -1)
	if c.MaxChars != DefaultMaxChars {
		t.Errorf("MaxChars = %d, want default %d", c.MaxChars, DefaultMaxChars)
	}
	if c.Overlap != 0 {
		t.Errorf("Overlap = %d, want 0", c.Overlap)
	}
	if c.MinChunk != 0 {
		t.Errorf("MinChunk = %d, want 0", c.MinChunk)
	}

	c = New(100, 100, 0)
	if c.Overlap >= c.MaxChars {
		t.Errorf("Overlap %d not clamped below MaxChars %d", c.Overlap, c.MaxChars)
	}
}
