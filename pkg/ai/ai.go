package ai

import (
	"context"
	"errors"
	"time"
)

// EmbeddingDimension is the width of the vectors produced by the configured
// embedding model (text-embedding-3-small).
const EmbeddingDimension = 1536

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ROLE_SYSTEM    = "system"
	ROLE_USER      = "user"
	ROLE_ASSISTANT = "assistant"
)

type GenerateRequest struct {
	SystemPrompt string
	Messages     []Message
}

type GenerateResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

type GenerateOptions struct {
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int
	RetryAttempts   int
	Timeout         time.Duration
}

// Known backend failure classes. Drivers classify provider errors into these
// so callers can degrade gracefully; anything else is a hard failure.
var (
	ErrRateLimited    = errors.New("generation backend rate limited")
	ErrContextTooLong = errors.New("generation context too long")
)

// ChatAI is the text-generation contract: system message plus ordered turns
// in, text plus usage out.
type ChatAI interface {
	Generate(ctx context.Context, req GenerateRequest, opts GenerateOptions) (GenerateResponse, error)
}

// EmbeddingAI turns text into a fixed-dimension vector.
type EmbeddingAI interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Driver interface {
	ChatAI
	EmbeddingAI
}
