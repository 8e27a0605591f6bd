package v1

import (
	"fmt"
	"strings"

	"github.com/kchat-ai/kchat/pkg/ai"
	"github.com/kchat-ai/kchat/pkg/types"
)

type PromptInput struct {
	SystemName   string
	ActivePrompt string // active SYSTEM prompt content; empty falls back to the default
	Lang         string
	Mode         types.KnowledgeMode
	Chunks       []types.RankedChunk
	History      []types.ChatMessage
	UserMessage  string
	MaxTurns     int
}

// BuildPrompt assembles the full generation request for one chat turn. It is
// deterministic: the same input always yields the same prompt, which keeps
// answers reproducible and testable.
func BuildPrompt(in PromptInput) ai.GenerateRequest {
	system := in.ActivePrompt
	if system == "" {
		system = defaultSystemPrompt(in.SystemName, in.Lang)
	}
	system += modeAddendum(in.Mode, in.Lang)

	context := buildContext(in.Chunks, in.Mode, in.Lang)

	maxTurns := in.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 10
	}
	history := in.History
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	messages := make([]ai.Message, 0, len(history)+1)
	for _, msg := range history {
		role := ai.ROLE_ASSISTANT
		if msg.Role == types.MESSAGE_ROLE_USER {
			role = ai.ROLE_USER
		}
		messages = append(messages, ai.Message{Role: role, Content: msg.Content})
	}

	userContent := in.UserMessage
	if context != "" {
		if in.Lang == types.LANGUAGE_EN_KEY {
			userContent = fmt.Sprintf("%s\n\nUSER QUESTION:\n%s", context, in.UserMessage)
		} else {
			userContent = fmt.Sprintf("%s\n\nFRAGE DES NUTZERS:\n%s", context, in.UserMessage)
		}
	}
	messages = append(messages, ai.Message{Role: ai.ROLE_USER, Content: userContent})

	return ai.GenerateRequest{
		SystemPrompt: system,
		Messages:     messages,
	}
}

func defaultSystemPrompt(systemName, lang string) string {
	if systemName == "" {
		systemName = "KChat"
	}

	if lang == types.LANGUAGE_EN_KEY {
		return fmt.Sprintf(`You are %s, an internal company AI assistant.

IMPORTANT RULES:
1. You base your answers primarily on the provided documents (context).
2. If you cannot find relevant information in the documents, say so honestly.
3. You NEVER invent information or facts.
4. You always state which sources your information comes from.
5. You structure your answers clearly.
6. When something is unclear, you ask follow-up questions.

ANSWER FORMAT:
- Start with a short summary (1-2 sentences)
- Then give details if relevant
- List the sources you used at the end

You are helpful, professional and precise.`, systemName)
	}

	return fmt.Sprintf(`Du bist %s, ein unternehmensinterner KI-Assistent.

WICHTIGE REGELN:
1. Du antwortest immer auf Deutsch, es sei denn, der Nutzer fragt explizit in einer anderen Sprache.
2. Du basierst deine Antworten primär auf den bereitgestellten Dokumenten (Kontext).
3. Wenn du keine relevanten Informationen in den Dokumenten findest, sagst du das ehrlich.
4. Du erfindest NIEMALS Informationen oder Fakten.
5. Du gibst immer an, aus welchen Quellen deine Informationen stammen.
6. Du strukturierst deine Antworten klar und übersichtlich.
7. Bei Unklarheiten stellst du Rückfragen.

ANTWORTFORMAT:
- Beginne mit einer kurzen Zusammenfassung (1-2 Sätze)
- Gib dann Details, falls relevant
- Nenne am Ende die verwendeten Quellen

Du bist hilfsbereit, professionell und präzise.`, systemName)
}

func modeAddendum(mode types.KnowledgeMode, lang string) string {
	if lang == types.LANGUAGE_EN_KEY {
		switch mode {
		case types.KNOWLEDGE_MODE_RAG_ONLY:
			return "\n\nIMPORTANT: You may ONLY use information from the provided documents.\nIf the documents contain no relevant information, say so clearly and invent NOTHING."
		case types.KNOWLEDGE_MODE_LLM_ONLY:
			return "\n\nNOTE: No internal documents were found for this request.\nYou answer from your general knowledge. Make clear that this is not a document-based answer."
		case types.KNOWLEDGE_MODE_HYBRID:
			return "\n\nNOTE: Internal documents were provided as context.\nPrioritize information from these documents, but supplement with your general knowledge where needed.\nMark clearly which information comes from the documents."
		}
		return ""
	}

	switch mode {
	case types.KNOWLEDGE_MODE_RAG_ONLY:
		return "\n\nWICHTIG: Du darfst NUR Informationen aus den bereitgestellten Dokumenten verwenden.\nWenn die Dokumente keine relevanten Informationen enthalten, sage das klar und erfinde NICHTS."
	case types.KNOWLEDGE_MODE_LLM_ONLY:
		return "\n\nHINWEIS: Für diese Anfrage wurden keine internen Dokumente gefunden.\nDu antwortest basierend auf deinem allgemeinen Wissen. Mache deutlich, dass dies keine dokumentenbasierte Antwort ist."
	case types.KNOWLEDGE_MODE_HYBRID:
		return "\n\nHINWEIS: Dir wurden interne Dokumente als Kontext bereitgestellt.\nPriorisiere Informationen aus diesen Dokumenten, ergänze aber bei Bedarf mit deinem allgemeinen Wissen.\nKennzeichne klar, welche Informationen aus den Dokumenten stammen."
	}
	return ""
}

// buildContext renders the retrieved chunks as a labeled context block. LLM
// only turns get no context even when chunks slipped through.
func buildContext(chunks []types.RankedChunk, mode types.KnowledgeMode, lang string) string {
	if len(chunks) == 0 || mode == types.KNOWLEDGE_MODE_LLM_ONLY {
		return ""
	}

	var sb strings.Builder
	if lang == types.LANGUAGE_EN_KEY {
		sb.WriteString("=== INTERNAL DOCUMENTS (context) ===\n\n")
		for i, chunk := range chunks {
			name := chunk.DocumentName
			if name == "" {
				name = "Unknown"
			}
			sb.WriteString(fmt.Sprintf("[Document %d: %s", i+1, name))
			if chunk.PageNumber > 0 {
				sb.WriteString(fmt.Sprintf(", page %d", chunk.PageNumber))
			}
			sb.WriteString(fmt.Sprintf("]\n%s\n\n", chunk.Content))
		}
		sb.WriteString("=== END OF CONTEXT ===\n")
		return sb.String()
	}

	sb.WriteString("=== INTERNE DOKUMENTE (Kontext) ===\n\n")
	for i, chunk := range chunks {
		name := chunk.DocumentName
		if name == "" {
			name = "Unbekannt"
		}
		sb.WriteString(fmt.Sprintf("[Dokument %d: %s", i+1, name))
		if chunk.PageNumber > 0 {
			sb.WriteString(fmt.Sprintf(", Seite %d", chunk.PageNumber))
		}
		sb.WriteString(fmt.Sprintf("]\n%s\n\n", chunk.Content))
	}
	sb.WriteString("=== ENDE KONTEXT ===\n")
	return sb.String()
}
