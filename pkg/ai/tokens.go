package ai

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
)

// NumTokens counts text tokens with the cl100k_base encoding. Falls back to a
// rough 4-chars-per-token estimate when the encoding cannot be loaded.
func NumTokens(text string) int {
	tokenizerOnce.Do(func() {
		var err error
		tokenizer, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			slog.Error("failed to load tiktoken encoding", slog.Any("error", err))
		}
	})
	if tokenizer == nil {
		return (len(text) + 3) / 4
	}
	return len(tokenizer.Encode(text, nil, nil))
}
