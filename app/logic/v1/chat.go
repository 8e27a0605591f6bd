package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/pkg/ai"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

const (
	chatTitleMaxRunes = 50
	sourceSnippetLen  = 200
)

type ChatLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewChatLogic(ctx context.Context, core *core.Core) *ChatLogic {
	return &ChatLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type SendMessageArgs struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message" binding:"required"`
}

// SendMessage runs the full answer pipeline for one user turn. The user
// message is persisted before anything that can fail downstream and is never
// rolled back; a dead generation backend must not eat the user's input.
func (l *ChatLogic) SendMessage(args SendMessageArgs) (*types.ChatResponse, error) {
	message := strings.TrimSpace(args.Message)
	if message == "" {
		return nil, pkgerrs.New("ChatLogic.SendMessage", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	settings := l.core.Settings(l.ctx)
	lang := l.Language()

	chat, err := l.resolveChat(args.ChatID, message)
	if err != nil {
		return nil, err
	}

	userMsg := types.ChatMessage{
		ID:      utils.GenRandomID(),
		ChatID:  chat.ID,
		Role:    types.MESSAGE_ROLE_USER,
		Content: message,
	}
	if err = l.core.Store().ChatMessageStore().Create(l.ctx, userMsg); err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}

	// The user message is already on disk here. Fetch one extra turn and drop
	// it again so the prompt builder sees only previous turns.
	history, err := l.core.Store().ChatMessageStore().ListLatest(l.ctx, chat.ID, uint64(settings.Chat.MaxContextTurns)+1)
	if err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}
	history = lo.Filter(history, func(m types.ChatMessage, _ int) bool { return m.ID != userMsg.ID })

	folders, err := NewAccessLogic(l.ctx, l.core).AccessibleFolders(l.User)
	if err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}
	folderIDs := lo.Map(folders, func(f types.Folder, _ int) string { return f.ID })

	result, fallbackUsed := NewRetrievalLogic(l.ctx, l.core).Search(message, folderIDs, settings.RAG)

	ragOnly := hasRagOnlyChunk(folders, result.Chunks)
	mode := SelectMode(folderIDs, result.Chunks, ragOnly)
	l.core.Metrics().Chat.Requests.WithLabelValues(string(mode)).Inc()

	activePrompt, err := l.activeSystemPrompt()
	if err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}

	req := BuildPrompt(PromptInput{
		SystemName:   settings.General.SystemName,
		ActivePrompt: activePrompt,
		Lang:         lang,
		Mode:         mode,
		Chunks:       result.Chunks,
		History:      history,
		UserMessage:  message,
		MaxTurns:     settings.Chat.MaxContextTurns,
	})

	start := time.Now()
	resp, degraded, err := l.core.Srv().AI().Generate(l.ctx, lang, req, generateOptions(settings.LLM))
	l.core.Metrics().Chat.GenerationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}
	if degraded {
		l.core.Metrics().Chat.DegradedAnswers.Inc()
	}

	sources := buildSources(result.Chunks, mode)
	assistantMsg := types.ChatMessage{
		ID:               utils.GenRandomID(),
		ChatID:           chat.ID,
		Role:             types.MESSAGE_ROLE_ASSISTANT,
		Content:          resp.Content,
		Mode:             mode,
		Sources:          sources,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
	}
	if err = l.core.Store().ChatMessageStore().Create(l.ctx, assistantMsg); err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}
	if err = l.core.Store().ChatStore().Touch(l.ctx, chat.ID); err != nil {
		return nil, pkgerrs.Trace("ChatLogic.SendMessage", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_CHAT_MESSAGE, "chat", chat.ID, types.AuditDetails{
		"mode":     mode,
		"fallback": fallbackUsed,
		"sources":  len(sources),
	}, "")

	return &types.ChatResponse{
		ChatID:             chat.ID,
		MessageID:          assistantMsg.ID,
		Content:            resp.Content,
		Mode:               mode,
		Sources:            sources,
		SuggestedQuestions: []string{},
	}, nil
}

// activeSystemPrompt returns the content of the active SYSTEM prompt; a
// missing one means the built-in default applies.
func (l *ChatLogic) activeSystemPrompt() (string, error) {
	prompt, err := l.core.Store().PromptStore().GetActive(l.ctx, types.PROMPT_TYPE_SYSTEM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return prompt.Content, nil
}

type PreviewMessageArgs struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// PreviewAsUser answers one question with another user's folder visibility,
// persisting nothing. Admins use it to verify what a given user would get.
func (l *ChatLogic) PreviewAsUser(args PreviewMessageArgs) (*types.ChatResponse, int, error) {
	message := strings.TrimSpace(args.Message)
	if message == "" {
		return nil, 0, pkgerrs.New("ChatLogic.PreviewAsUser", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	target, err := l.core.Store().UserStore().Get(l.ctx, args.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, pkgerrs.New("ChatLogic.PreviewAsUser", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, 0, pkgerrs.Trace("ChatLogic.PreviewAsUser", err)
	}

	settings := l.core.Settings(l.ctx)
	lang := l.Language()

	deps := accessDeps{
		folders:      l.core.Store().FolderStore(),
		userFolders:  l.core.Store().UserFolderStore(),
		userGroups:   l.core.Store().UserGroupStore(),
		groupFolders: l.core.Store().GroupFolderStore(),
	}
	folders, err := resolveAccessibleFolders(l.ctx, deps, target.ID, target.Role)
	if err != nil {
		return nil, 0, pkgerrs.Trace("ChatLogic.PreviewAsUser", err)
	}
	folderIDs := lo.Map(folders, func(f types.Folder, _ int) string { return f.ID })

	result, _ := NewRetrievalLogic(l.ctx, l.core).Search(message, folderIDs, settings.RAG)

	ragOnly := hasRagOnlyChunk(folders, result.Chunks)
	mode := SelectMode(folderIDs, result.Chunks, ragOnly)

	activePrompt, err := l.activeSystemPrompt()
	if err != nil {
		return nil, 0, pkgerrs.Trace("ChatLogic.PreviewAsUser", err)
	}

	req := BuildPrompt(PromptInput{
		SystemName:   settings.General.SystemName,
		ActivePrompt: activePrompt,
		Lang:         lang,
		Mode:         mode,
		Chunks:       result.Chunks,
		UserMessage:  message,
		MaxTurns:     settings.Chat.MaxContextTurns,
	})

	resp, _, err := l.core.Srv().AI().Generate(l.ctx, lang, req, generateOptions(settings.LLM))
	if err != nil {
		return nil, 0, pkgerrs.Trace("ChatLogic.PreviewAsUser", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_CHAT_PREVIEW, "user", target.ID, types.AuditDetails{
		"mode":    mode,
		"folders": len(folderIDs),
	}, "")

	return &types.ChatResponse{
		Content:            resp.Content,
		Mode:               mode,
		Sources:            buildSources(result.Chunks, mode),
		SuggestedQuestions: []string{},
	}, len(folderIDs), nil
}

func generateOptions(s types.LLMSettings) ai.GenerateOptions {
	return ai.GenerateOptions{
		Model:           s.Model,
		Temperature:     s.Temperature,
		TopP:            s.TopP,
		MaxOutputTokens: s.MaxOutputTokens,
		RetryAttempts:   s.RetryAttempts,
		Timeout:         s.Timeout(),
	}
}

// resolveChat loads an existing chat (enforcing ownership) or creates one
// titled after the first message.
func (l *ChatLogic) resolveChat(chatID, firstMessage string) (*types.Chat, error) {
	if chatID != "" {
		chat, err := l.core.Store().ChatStore().Get(l.ctx, chatID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, pkgerrs.New("ChatLogic.resolveChat", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
			}
			return nil, pkgerrs.Trace("ChatLogic.resolveChat", err)
		}
		if chat.UserID != l.User {
			return nil, pkgerrs.New("ChatLogic.resolveChat", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
		}
		return chat, nil
	}

	chat := types.Chat{
		ID:     utils.GenRandomID(),
		UserID: l.User,
		Title:  chatTitle(firstMessage),
	}
	if err := l.core.Store().ChatStore().Create(l.ctx, chat); err != nil {
		return nil, pkgerrs.Trace("ChatLogic.resolveChat", err)
	}
	return &chat, nil
}

func chatTitle(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) > chatTitleMaxRunes {
		return string(runes[:chatTitleMaxRunes])
	}
	return string(runes)
}

// hasRagOnlyChunk reports whether any retrieved chunk came from a folder
// whose policy forbids answering outside the retrieved context.
func hasRagOnlyChunk(folders []types.Folder, chunks []types.RankedChunk) bool {
	if len(chunks) == 0 {
		return false
	}
	policies := make(map[string]types.KnowledgeMode, len(folders))
	for _, f := range folders {
		policies[f.ID] = f.KnowledgeMode
	}
	for _, chunk := range chunks {
		if policies[chunk.FolderID] == types.KNOWLEDGE_MODE_RAG_ONLY {
			return true
		}
	}
	return false
}

func buildSources(chunks []types.RankedChunk, mode types.KnowledgeMode) types.Sources {
	if mode == types.KNOWLEDGE_MODE_LLM_ONLY {
		return types.Sources{}
	}
	sources := make(types.Sources, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, types.Source{
			DocumentID:     chunk.DocumentID,
			DocumentName:   chunk.DocumentName,
			FolderPath:     chunk.FolderPath,
			PageNumber:     chunk.PageNumber,
			ChunkID:        chunk.ID,
			RelevanceScore: chunk.Score,
			Snippet:        snippet(chunk.Content, sourceSnippetLen),
		})
	}
	return sources
}

func snippet(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}

func (l *ChatLogic) ListChats(page, pageSize uint64) ([]types.Chat, int64, error) {
	list, err := l.core.Store().ChatStore().List(l.ctx, l.User, page, pageSize)
	if err != nil {
		return nil, 0, pkgerrs.Trace("ChatLogic.ListChats", err)
	}
	total, err := l.core.Store().ChatStore().Total(l.ctx, l.User)
	if err != nil {
		return nil, 0, pkgerrs.Trace("ChatLogic.ListChats", err)
	}
	return list, total, nil
}

func (l *ChatLogic) ListMessages(chatID string, page, pageSize uint64) ([]types.ChatMessage, error) {
	if _, err := l.ownedChat(chatID); err != nil {
		return nil, err
	}
	list, err := l.core.Store().ChatMessageStore().List(l.ctx, chatID, page, pageSize)
	if err != nil {
		return nil, pkgerrs.Trace("ChatLogic.ListMessages", err)
	}
	return list, nil
}

func (l *ChatLogic) RenameChat(chatID, title string) error {
	if _, err := l.ownedChat(chatID); err != nil {
		return err
	}
	if err := l.core.Store().ChatStore().UpdateTitle(l.ctx, chatID, chatTitle(title)); err != nil {
		return pkgerrs.Trace("ChatLogic.RenameChat", err)
	}
	return nil
}

func (l *ChatLogic) ArchiveChat(chatID string, archived bool) error {
	if _, err := l.ownedChat(chatID); err != nil {
		return err
	}
	if err := l.core.Store().ChatStore().SetArchived(l.ctx, chatID, archived); err != nil {
		return pkgerrs.Trace("ChatLogic.ArchiveChat", err)
	}
	return nil
}

func (l *ChatLogic) DeleteChat(chatID string) error {
	if _, err := l.ownedChat(chatID); err != nil {
		return err
	}
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChatMessageStore().DeleteByChat(ctx, chatID); err != nil {
			return pkgerrs.Trace("ChatLogic.DeleteChat", err)
		}
		if err := l.core.Store().ChatStore().Delete(ctx, chatID); err != nil {
			return pkgerrs.Trace("ChatLogic.DeleteChat", err)
		}
		return nil
	})
}

type FeedbackArgs struct {
	Feedback types.FeedbackType `json:"feedback" binding:"required"`
	Comment  string             `json:"comment"`
}

// Feedback records the user's verdict on an assistant message. Only the
// feedback fields of a message ever change after creation.
func (l *ChatLogic) Feedback(messageID string, args FeedbackArgs) error {
	if args.Feedback != types.FEEDBACK_POSITIVE && args.Feedback != types.FEEDBACK_NEGATIVE {
		return pkgerrs.New("ChatLogic.Feedback", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	msg, err := l.core.Store().ChatMessageStore().Get(l.ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrs.New("ChatLogic.Feedback", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrs.Trace("ChatLogic.Feedback", err)
	}
	if msg.Role != types.MESSAGE_ROLE_ASSISTANT {
		return pkgerrs.New("ChatLogic.Feedback", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if _, err = l.ownedChat(msg.ChatID); err != nil {
		return err
	}

	if err = l.core.Store().ChatMessageStore().UpdateFeedback(l.ctx, messageID, args.Feedback, args.Comment); err != nil {
		return pkgerrs.Trace("ChatLogic.Feedback", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_CHAT_FEEDBACK, "chat_message", messageID, types.AuditDetails{
		"feedback": args.Feedback,
	}, "")
	return nil
}

func (l *ChatLogic) ownedChat(chatID string) (*types.Chat, error) {
	chat, err := l.core.Store().ChatStore().Get(l.ctx, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("ChatLogic.ownedChat", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("ChatLogic.ownedChat", err)
	}
	if chat.UserID != l.User {
		return nil, pkgerrs.New("ChatLogic.ownedChat", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return chat, nil
}
