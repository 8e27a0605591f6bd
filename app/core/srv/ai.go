package srv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kchat-ai/kchat/pkg/ai"
	"github.com/kchat-ai/kchat/pkg/ai/openai"
	"github.com/kchat-ai/kchat/pkg/i18n"
)

type AIConfig struct {
	Driver         string `toml:"driver"`
	Token          string `toml:"token"`
	Endpoint       string `toml:"endpoint"`
	EmbeddingModel string `toml:"embedding_model"`
}

func ApplyAI(cfg AIConfig) ApplyFunc {
	return ApplyAIDriver(openai.New(cfg.Token, cfg.Endpoint, cfg.EmbeddingModel))
}

// ApplyAIDriver wires a prebuilt driver, used by tests.
func ApplyAIDriver(driver ai.Driver) ApplyFunc {
	return func(s *Srv) {
		s.ai = &AISrv{
			driver:    driver,
			localizer: i18n.NewLocalizer("en", "de"),
		}
	}
}

// AISrv fronts the generation backend. Rate limits and context overflows do
// not fail a chat turn: they come back as a localized apology with zero usage
// so the caller can still persist an assistant message.
type AISrv struct {
	driver    ai.Driver
	localizer i18n.Localizer
}

func (s *AISrv) Generate(ctx context.Context, lang string, req ai.GenerateRequest, opts ai.GenerateOptions) (ai.GenerateResponse, bool, error) {
	resp, err := s.driver.Generate(ctx, req, opts)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrRateLimited):
			slog.Warn("generation rate limited, answering degraded", slog.Any("error", err))
			return ai.GenerateResponse{Content: s.localizer.Get(lang, i18n.MESSAGE_LLM_RATE_LIMITED)}, true, nil
		case errors.Is(err, ai.ErrContextTooLong):
			slog.Warn("generation context too long, answering degraded", slog.Any("error", err))
			return ai.GenerateResponse{Content: s.localizer.Get(lang, i18n.MESSAGE_LLM_CONTEXT_TOO_LONG)}, true, nil
		default:
			return ai.GenerateResponse{}, false, err
		}
	}
	return resp, false, nil
}

func (s *AISrv) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.driver.Embed(ctx, text)
}
