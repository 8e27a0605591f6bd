package v1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kchat-ai/kchat/pkg/ai"
	"github.com/kchat-ai/kchat/pkg/types"
)

func TestBuildPromptDeterministic(t *testing.T) {
	in := PromptInput{
		SystemName:  "AcmeGPT",
		Lang:        types.LANGUAGE_DE_KEY,
		Mode:        types.KNOWLEDGE_MODE_HYBRID,
		Chunks:      []types.RankedChunk{{DocumentName: "Handbuch.pdf", PageNumber: 3, Content: "Urlaubsanspruch beträgt 30 Tage."}},
		UserMessage: "Wie viele Urlaubstage habe ich?",
	}

	first := BuildPrompt(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildPrompt(in))
	}
}

func TestBuildPromptDefaultSystemPrompt(t *testing.T) {
	req := BuildPrompt(PromptInput{
		SystemName:  "AcmeGPT",
		Lang:        types.LANGUAGE_DE_KEY,
		Mode:        types.KNOWLEDGE_MODE_LLM_ONLY,
		UserMessage: "Hallo",
	})
	assert.Contains(t, req.SystemPrompt, "Du bist AcmeGPT")
	assert.Contains(t, req.SystemPrompt, "erfindest NIEMALS")

	// empty system name falls back to the product name
	req = BuildPrompt(PromptInput{Lang: types.LANGUAGE_DE_KEY, Mode: types.KNOWLEDGE_MODE_LLM_ONLY, UserMessage: "Hallo"})
	assert.Contains(t, req.SystemPrompt, "Du bist KChat")
}

func TestBuildPromptActivePromptWins(t *testing.T) {
	req := BuildPrompt(PromptInput{
		ActivePrompt: "Du bist ein Testassistent.",
		Lang:         types.LANGUAGE_DE_KEY,
		Mode:         types.KNOWLEDGE_MODE_HYBRID,
		UserMessage:  "Hallo",
	})
	assert.True(t, strings.HasPrefix(req.SystemPrompt, "Du bist ein Testassistent."))
	assert.NotContains(t, req.SystemPrompt, "WICHTIGE REGELN")
	// mode addendum still applies on top of a custom prompt
	assert.Contains(t, req.SystemPrompt, "HINWEIS: Dir wurden interne Dokumente")
}

func TestBuildPromptModeAddenda(t *testing.T) {
	base := PromptInput{Lang: types.LANGUAGE_DE_KEY, UserMessage: "Frage"}

	base.Mode = types.KNOWLEDGE_MODE_RAG_ONLY
	assert.Contains(t, BuildPrompt(base).SystemPrompt, "WICHTIG: Du darfst NUR Informationen")

	base.Mode = types.KNOWLEDGE_MODE_LLM_ONLY
	assert.Contains(t, BuildPrompt(base).SystemPrompt, "keine internen Dokumente gefunden")

	base.Lang = types.LANGUAGE_EN_KEY
	base.Mode = types.KNOWLEDGE_MODE_RAG_ONLY
	assert.Contains(t, BuildPrompt(base).SystemPrompt, "ONLY use information from the provided documents")
}

func TestBuildPromptContextBlock(t *testing.T) {
	chunks := []types.RankedChunk{
		{DocumentName: "Handbuch.pdf", PageNumber: 12, Content: "Inhalt eins."},
		{Content: "Inhalt zwei."}, // no document name
	}

	req := BuildPrompt(PromptInput{
		Lang:        types.LANGUAGE_DE_KEY,
		Mode:        types.KNOWLEDGE_MODE_HYBRID,
		Chunks:      chunks,
		UserMessage: "Frage?",
	})

	user := req.Messages[len(req.Messages)-1]
	assert.Equal(t, ai.ROLE_USER, user.Role)
	assert.Contains(t, user.Content, "=== INTERNE DOKUMENTE (Kontext) ===")
	assert.Contains(t, user.Content, "[Dokument 1: Handbuch.pdf, Seite 12]")
	assert.Contains(t, user.Content, "[Dokument 2: Unbekannt]")
	assert.Contains(t, user.Content, "FRAGE DES NUTZERS:\nFrage?")
}

func TestBuildPromptNoContextForLLMOnly(t *testing.T) {
	req := BuildPrompt(PromptInput{
		Lang:        types.LANGUAGE_DE_KEY,
		Mode:        types.KNOWLEDGE_MODE_LLM_ONLY,
		Chunks:      []types.RankedChunk{{DocumentName: "Handbuch.pdf", Content: "Inhalt."}},
		UserMessage: "Frage?",
	})

	user := req.Messages[len(req.Messages)-1]
	assert.Equal(t, "Frage?", user.Content)
}

func TestBuildPromptHistoryWindow(t *testing.T) {
	var history []types.ChatMessage
	for i := 0; i < 15; i++ {
		role := types.MESSAGE_ROLE_USER
		if i%2 == 1 {
			role = types.MESSAGE_ROLE_ASSISTANT
		}
		history = append(history, types.ChatMessage{Role: role, Content: strings.Repeat("m", i+1)})
	}

	req := BuildPrompt(PromptInput{
		Lang:        types.LANGUAGE_DE_KEY,
		Mode:        types.KNOWLEDGE_MODE_LLM_ONLY,
		History:     history,
		UserMessage: "Neu",
		MaxTurns:    4,
	})

	// last 4 history turns plus the new user message
	assert.Len(t, req.Messages, 5)
	assert.Equal(t, history[len(history)-4].Content, req.Messages[0].Content)
	assert.Equal(t, "Neu", req.Messages[4].Content)
}
