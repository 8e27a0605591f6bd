package v1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText("", 500, 50))
	assert.Nil(t, ChunkText("   \n\n  ", 500, 50))
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("Ein kurzer Absatz.", 500, 50)
	assert.Equal(t, []string{"Ein kurzer Absatz."}, chunks)
}

func TestChunkTextParagraphs(t *testing.T) {
	text := strings.Repeat("Erster Absatz mit etwas Inhalt. ", 5) + "\n\n" +
		strings.Repeat("Zweiter Absatz mit anderem Inhalt. ", 5) + "\n\n" +
		strings.Repeat("Dritter Absatz. ", 5)

	chunks := ChunkText(text, 200, 0)
	assert.Greater(t, len(chunks), 1)

	// every word of the input must be findable in some chunk
	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestChunkTextOversizedParagraph(t *testing.T) {
	// one paragraph far beyond the target forces the sentence splitter
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Dies ist ein vollständiger Satz mit genug Wörtern um zu zählen. ")
	}

	chunks := ChunkText(sb.String(), 300, 0)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkTextOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("Satz nummer eins zum Testen der Überlappung. ")
	}

	chunks := ChunkText(sb.String(), 250, 50)
	if assert.Greater(t, len(chunks), 1) {
		// the second chunk starts with the word overlap carried from the first
		carry := tailWords(chunks[0], (50+4)/5)
		assert.True(t, strings.HasPrefix(chunks[1], carry))
	}
}

func TestChunkTextNoSplitterMatch(t *testing.T) {
	// no paragraph breaks, no sentence punctuation: comes back whole
	text := strings.Repeat("wort ", 200)
	chunks := ChunkText(text, 100, 0)
	assert.NotEmpty(t, chunks)
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "wort")
}
