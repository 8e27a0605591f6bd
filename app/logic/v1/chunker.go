package v1

import (
	"regexp"
	"strings"
)

var (
	paragraphSplitRE = regexp.MustCompile(`\n\s*\n`)
	sentenceRE       = regexp.MustCompile(`[^.!?]+[.!?]*\s*`)
)

// ChunkText splits document text into retrieval-sized pieces. Paragraphs are
// accumulated until the target size is reached; oversized paragraphs fall back
// to sentence splitting. Consecutive chunks share a small word overlap so a
// statement cut at a boundary stays findable. Empty input yields no chunks;
// input that defeats both splitters comes back whole.
func ChunkText(text string, targetSize, overlap int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if targetSize <= 0 {
		targetSize = 500
	}

	overlapWords := 0
	if overlap > 0 {
		overlapWords = (overlap + 4) / 5
	}

	var (
		chunks  []string
		current string
		// current holds only the overlap carried from the previous flush,
		// nothing new to emit yet
		seeded bool
	)

	flush := func() {
		if seeded || strings.TrimSpace(current) == "" {
			return
		}
		piece := strings.TrimSpace(current)
		chunks = append(chunks, piece)
		current = tailWords(piece, overlapWords)
		seeded = current != ""
	}

	appendPart := func(part, sep string) {
		if current != "" && !seeded && len(current)+len(part)+len(sep) > targetSize {
			flush()
		}
		if current == "" {
			current = part
		} else if seeded {
			current = current + " " + part
		} else {
			current = current + sep + part
		}
		seeded = false
	}

	for _, paragraph := range paragraphSplitRE.Split(trimmed, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if len(paragraph) <= targetSize {
			appendPart(paragraph, "\n\n")
			continue
		}

		for _, sentence := range sentenceRE.FindAllString(paragraph, -1) {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			appendPart(sentence, " ")
		}
	}
	flush()

	if len(chunks) == 0 {
		chunks = []string{trimmed}
	}
	return chunks
}

// tailWords returns the last n whitespace-separated words, used as the seed of
// the next chunk.
func tailWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[len(words)-n:], " ")
}
