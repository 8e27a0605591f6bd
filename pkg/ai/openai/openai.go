package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kchat-ai/kchat/pkg/ai"
)

type Driver struct {
	client         *goopenai.Client
	embeddingModel string
}

func New(token, endpoint, embeddingModel string) *Driver {
	cfg := goopenai.DefaultConfig(token)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	if embeddingModel == "" {
		embeddingModel = string(goopenai.SmallEmbedding3)
	}
	return &Driver{
		client:         goopenai.NewClientWithConfig(cfg),
		embeddingModel: embeddingModel,
	}
}

func (d *Driver) Generate(ctx context.Context, req ai.GenerateRequest, opts ai.GenerateOptions) (ai.GenerateResponse, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var resp goopenai.ChatCompletionResponse
	err := retry.Do(func() error {
		var err error
		resp, err = d.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
			Model:       opts.Model,
			Messages:    messages,
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			MaxTokens:   opts.MaxOutputTokens,
		})
		if err != nil {
			return classify(err)
		}
		return nil
	},
		retry.Attempts(uint(opts.RetryAttempts)+1),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return ai.GenerateResponse{}, err
	}

	if len(resp.Choices) == 0 {
		return ai.GenerateResponse{}, errors.New("empty completion response")
	}
	return ai.GenerateResponse{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (d *Driver) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := d.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(d.embeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// classify maps provider errors onto the driver-neutral failure classes so
// callers can degrade instead of failing the whole chat turn.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			return errors.Join(ai.ErrRateLimited, err)
		}
		if code, ok := apiErr.Code.(string); ok && code == "context_length_exceeded" {
			return errors.Join(ai.ErrContextTooLong, err)
		}
		if strings.Contains(apiErr.Message, "maximum context length") {
			return errors.Join(ai.ErrContextTooLong, err)
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == 429 {
		return errors.Join(ai.ErrRateLimited, err)
	}
	return err
}

// retryable reports whether a call is worth repeating. Rate limits and
// context overflows are handled by degradation, not retries.
func retryable(err error) bool {
	if errors.Is(err, ai.ErrRateLimited) || errors.Is(err, ai.ErrContextTooLong) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}
	return true
}
