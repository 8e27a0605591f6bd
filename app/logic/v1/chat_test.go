package v1

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/app/core/srv"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/ai"
	"github.com/kchat-ai/kchat/pkg/security"
	"github.com/kchat-ai/kchat/pkg/types"
)

type fakeChatStore struct {
	store.ChatStore
	chats map[string]types.Chat
}

func (s *fakeChatStore) Create(ctx context.Context, data types.Chat) error {
	s.chats[data.ID] = data
	return nil
}

func (s *fakeChatStore) Get(ctx context.Context, id string) (*types.Chat, error) {
	if c, ok := s.chats[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeChatStore) Touch(ctx context.Context, id string) error { return nil }

type fakeMessageStore struct {
	store.ChatMessageStore
	messages []types.ChatMessage
	listErr  error
}

func (s *fakeMessageStore) Create(ctx context.Context, data types.ChatMessage) error {
	s.messages = append(s.messages, data)
	return nil
}

func (s *fakeMessageStore) ListLatest(ctx context.Context, chatID string, n uint64) ([]types.ChatMessage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var list []types.ChatMessage
	for _, m := range s.messages {
		if m.ChatID == chatID {
			list = append(list, m)
		}
	}
	if uint64(len(list)) > n {
		list = list[uint64(len(list))-n:]
	}
	return list, nil
}

func (s *fakeMessageStore) byRole(role types.MessageUserRole) []types.ChatMessage {
	var list []types.ChatMessage
	for _, m := range s.messages {
		if m.Role == role {
			list = append(list, m)
		}
	}
	return list
}

type fakeUserStore struct {
	store.UserStore
	users map[string]types.User
}

func (s *fakeUserStore) Get(ctx context.Context, id string) (*types.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

type fakePromptStore struct{ store.PromptStore }

func (s *fakePromptStore) GetActive(ctx context.Context, promptType types.PromptType) (*types.Prompt, error) {
	return nil, sql.ErrNoRows
}

type fakeSettingsStore struct {
	store.SystemSettingsStore
	payload types.SettingsPayload
}

func (s *fakeSettingsStore) Get(ctx context.Context) (*types.SystemSettings, error) {
	return &types.SystemSettings{ID: types.SYSTEM_SETTINGS_SINGLETON_ID, Settings: s.payload}, nil
}

type fakeAuditStore struct{ store.AuditLogStore }

func (s *fakeAuditStore) Create(ctx context.Context, data types.AuditLog) error { return nil }

// fakeStore satisfies store.Store with in-memory sub-stores so the full
// pipeline can run without a database.
type fakeStore struct {
	folders      *fakeFolderStore
	userFolders  *fakeUserFolderStore
	userGroups   *fakeUserGroupStore
	groupFolders *fakeGroupFolderStore
	chunks       *fakeChunkStore
	vectors      *fakeVectorStore
	users        *fakeUserStore
	chats        *fakeChatStore
	messages     *fakeMessageStore
	prompts      *fakePromptStore
	settings     *fakeSettingsStore
	audits       *fakeAuditStore
	analytics    *fakeAnalyticsStore
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) FolderStore() store.FolderStore                 { return s.folders }
func (s *fakeStore) DocumentStore() store.DocumentStore             { return nil }
func (s *fakeStore) ChunkStore() store.ChunkStore                   { return s.chunks }
func (s *fakeStore) VectorStore() store.VectorStore                 { return s.vectors }
func (s *fakeStore) UserStore() store.UserStore                     { return s.users }
func (s *fakeStore) GroupStore() store.GroupStore                   { return nil }
func (s *fakeStore) UserFolderStore() store.UserFolderStore         { return s.userFolders }
func (s *fakeStore) UserGroupStore() store.UserGroupStore           { return s.userGroups }
func (s *fakeStore) GroupFolderStore() store.GroupFolderStore       { return s.groupFolders }
func (s *fakeStore) ChatStore() store.ChatStore                     { return s.chats }
func (s *fakeStore) ChatMessageStore() store.ChatMessageStore       { return s.messages }
func (s *fakeStore) PromptStore() store.PromptStore                 { return s.prompts }
func (s *fakeStore) SystemSettingsStore() store.SystemSettingsStore { return s.settings }
func (s *fakeStore) AuditLogStore() store.AuditLogStore             { return s.audits }
func (s *fakeStore) AnalyticsStore() store.AnalyticsStore           { return s.analytics }

type scriptedDriver struct {
	embedCalls  int
	lastReq     ai.GenerateRequest
	generateErr error
}

func (d *scriptedDriver) Generate(ctx context.Context, req ai.GenerateRequest, opts ai.GenerateOptions) (ai.GenerateResponse, error) {
	d.lastReq = req
	if d.generateErr != nil {
		return ai.GenerateResponse{}, d.generateErr
	}
	return ai.GenerateResponse{Content: "Antwort.", PromptTokens: 10, CompletionTokens: 5}, nil
}

func (d *scriptedDriver) Embed(ctx context.Context, text string) ([]float32, error) {
	d.embedCalls++
	return make([]float32, 4), nil
}

type chatFixture struct {
	ctx    context.Context
	store  *fakeStore
	driver *scriptedDriver
	core   *core.Core
}

func newChatFixture() *chatFixture {
	st := &fakeStore{
		folders:      &fakeFolderStore{},
		userFolders:  &fakeUserFolderStore{},
		userGroups:   &fakeUserGroupStore{},
		groupFolders: &fakeGroupFolderStore{},
		chunks:       &fakeChunkStore{},
		vectors:      &fakeVectorStore{},
		users:        &fakeUserStore{users: map[string]types.User{}},
		chats:        &fakeChatStore{chats: map[string]types.Chat{}},
		messages:     &fakeMessageStore{},
		prompts:      &fakePromptStore{},
		settings:     &fakeSettingsStore{payload: types.DefaultSettings()},
		audits:       &fakeAuditStore{},
		analytics:    &fakeAnalyticsStore{},
	}
	driver := &scriptedDriver{}
	claims := security.NewTokenClaims("u1", "mmeier", string(types.USER_ROLE_NORMAL), "de", time.Hour)
	return &chatFixture{
		ctx:    WithUserInfo(context.Background(), &claims),
		store:  st,
		driver: driver,
		core:   core.MustSetupTestCore(st, srv.SetupSrvs(srv.ApplyAIDriver(driver))),
	}
}

// grantFolder gives the fixture user one ACTIVE folder.
func (f *chatFixture) grantFolder(folder types.Folder) {
	f.store.folders.folders = append(f.store.folders.folders, folder)
	f.store.userFolders.folderIDs = append(f.store.userFolders.folderIDs, folder.ID)
}

func TestSendMessageLexicalFallbackEndToEnd(t *testing.T) {
	f := newChatFixture()
	f.grantFolder(types.Folder{ID: "f1", Path: "/hr", Status: types.FOLDER_STATUS_ACTIVE, KnowledgeMode: types.KNOWLEDGE_MODE_HYBRID})
	f.store.vectors.err = fmt.Errorf("index unavailable")
	f.store.chunks.result = []types.RankedChunk{{
		ID: "c1", DocumentID: "d1", DocumentName: "Handbuch.pdf",
		FolderID: "f1", FolderPath: "/hr",
		Content: "Der Urlaubsanspruch beträgt 30 Tage.",
	}}

	resp, err := NewChatLogic(f.ctx, f.core).SendMessage(SendMessageArgs{Message: "Wie viele Urlaubstage habe ich?"})
	require.NoError(t, err)

	assert.Equal(t, types.KNOWLEDGE_MODE_HYBRID, resp.Mode)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, FallbackScore, resp.Sources[0].RelevanceScore)
	assert.Equal(t, "Handbuch.pdf", resp.Sources[0].DocumentName)

	// the assistant message lands with the fallback-scored source attached
	assistant := f.store.messages.byRole(types.MESSAGE_ROLE_ASSISTANT)
	require.Len(t, assistant, 1)
	require.Len(t, assistant[0].Sources, 1)
	assert.Equal(t, FallbackScore, assistant[0].Sources[0].RelevanceScore)
}

func TestSendMessageNoFoldersEndToEnd(t *testing.T) {
	f := newChatFixture() // no folder grants at all

	resp, err := NewChatLogic(f.ctx, f.core).SendMessage(SendMessageArgs{Message: "Wie viele Urlaubstage habe ich?"})
	require.NoError(t, err)

	assert.Equal(t, types.KNOWLEDGE_MODE_LLM_ONLY, resp.Mode)
	assert.Empty(t, resp.Sources)

	// no retrieval backend was touched
	assert.Zero(t, f.driver.embedCalls)
	assert.Zero(t, f.store.vectors.calls)
	assert.Zero(t, f.store.chunks.calls)

	// both turns still persisted
	assert.Len(t, f.store.messages.byRole(types.MESSAGE_ROLE_USER), 1)
	assert.Len(t, f.store.messages.byRole(types.MESSAGE_ROLE_ASSISTANT), 1)
}

func TestSendMessageReadsTopKFresh(t *testing.T) {
	f := newChatFixture()
	f.grantFolder(types.Folder{ID: "f1", Status: types.FOLDER_STATUS_ACTIVE, KnowledgeMode: types.KNOWLEDGE_MODE_HYBRID})

	logic := NewChatLogic(f.ctx, f.core)
	_, err := logic.SendMessage(SendMessageArgs{Message: "Erste Frage bitte"})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), f.store.vectors.lastLimit)

	// an admin lowers rag.topK; the very next retrieval must use it
	f.store.settings.payload.RAG.TopK = 3
	_, err = logic.SendMessage(SendMessageArgs{Message: "Zweite Frage bitte"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), f.store.vectors.lastLimit)
}

func TestSendMessageUserMessageSurvivesHistoryFailure(t *testing.T) {
	f := newChatFixture()
	f.store.messages.listErr = fmt.Errorf("history query failed")

	_, err := NewChatLogic(f.ctx, f.core).SendMessage(SendMessageArgs{Message: "Wichtige Frage"})
	assert.Error(t, err)

	// the question was written before the failing history read
	users := f.store.messages.byRole(types.MESSAGE_ROLE_USER)
	require.Len(t, users, 1)
	assert.Equal(t, "Wichtige Frage", users[0].Content)
	assert.Empty(t, f.store.messages.byRole(types.MESSAGE_ROLE_ASSISTANT))
}

func TestSendMessageHistoryExcludesCurrentTurn(t *testing.T) {
	f := newChatFixture()
	f.store.chats.chats["ch1"] = types.Chat{ID: "ch1", UserID: "u1", Title: "Alt"}
	f.store.messages.messages = []types.ChatMessage{
		{ID: "m1", ChatID: "ch1", Role: types.MESSAGE_ROLE_USER, Content: "Alte Frage"},
		{ID: "m2", ChatID: "ch1", Role: types.MESSAGE_ROLE_ASSISTANT, Content: "Alte Antwort"},
	}

	_, err := NewChatLogic(f.ctx, f.core).SendMessage(SendMessageArgs{ChatID: "ch1", Message: "Neue Frage"})
	require.NoError(t, err)

	// two history turns plus the current question, which appears exactly once
	req := f.driver.lastReq
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "Alte Frage", req.Messages[0].Content)
	assert.Equal(t, "Alte Antwort", req.Messages[1].Content)
	assert.Equal(t, "Neue Frage", req.Messages[2].Content)
}

func TestPreviewAsUser(t *testing.T) {
	f := newChatFixture()
	f.store.users.users["u2"] = types.User{ID: "u2", Username: "azubi", Role: types.USER_ROLE_NORMAL}
	f.grantFolder(types.Folder{ID: "f1", Path: "/hr", Status: types.FOLDER_STATUS_ACTIVE, KnowledgeMode: types.KNOWLEDGE_MODE_HYBRID})
	f.store.vectors.result = []types.RankedChunk{{
		ID: "c1", DocumentID: "d1", DocumentName: "Handbuch.pdf", FolderID: "f1", Score: 0.9, Content: "Inhalt.",
	}}

	resp, folders, err := NewChatLogic(f.ctx, f.core).PreviewAsUser(PreviewMessageArgs{UserID: "u2", Message: "Was sieht dieser Nutzer?"})
	require.NoError(t, err)

	assert.Equal(t, 1, folders)
	assert.Equal(t, types.KNOWLEDGE_MODE_HYBRID, resp.Mode)
	assert.Len(t, resp.Sources, 1)
	assert.Empty(t, resp.ChatID)

	// a preview never persists a chat or any message
	assert.Empty(t, f.store.chats.chats)
	assert.Empty(t, f.store.messages.messages)

	// unknown target user is a clean not-found
	_, _, err = NewChatLogic(f.ctx, f.core).PreviewAsUser(PreviewMessageArgs{UserID: "ghost", Message: "Hallo?"})
	assert.Error(t, err)
}

func TestChatTitle(t *testing.T) {
	assert.Equal(t, "Kurze Frage", chatTitle("  Kurze Frage  "))

	long := strings.Repeat("ä", 80)
	title := chatTitle(long)
	assert.Equal(t, 50, len([]rune(title)))
	assert.True(t, strings.HasPrefix(long, title))
}

func TestBuildSources(t *testing.T) {
	chunks := []types.RankedChunk{
		{ID: "c1", DocumentID: "d1", DocumentName: "Handbuch.pdf", FolderPath: "/hr", PageNumber: 2, Score: 0.91, Content: "Kurzer Inhalt."},
		{ID: "c2", DocumentID: "d2", Content: strings.Repeat("x", 300)},
	}

	sources := buildSources(chunks, types.KNOWLEDGE_MODE_HYBRID)
	if assert.Len(t, sources, 2) {
		assert.Equal(t, "Handbuch.pdf", sources[0].DocumentName)
		assert.Equal(t, float32(0.91), sources[0].RelevanceScore)
		assert.Equal(t, "Kurzer Inhalt.", sources[0].Snippet)
		// long content is clipped with an ellipsis
		assert.Equal(t, 201, len([]rune(sources[1].Snippet)))
		assert.True(t, strings.HasSuffix(sources[1].Snippet, "…"))
	}

	// an answer without document grounding cites nothing
	assert.Empty(t, buildSources(chunks, types.KNOWLEDGE_MODE_LLM_ONLY))
}

func TestGenerateOptions(t *testing.T) {
	opts := generateOptions(types.LLMSettings{
		Model:           "gpt-4o-mini",
		Temperature:     0.3,
		TopP:            0.9,
		MaxOutputTokens: 1024,
		RetryAttempts:   2,
		RequestTimeout:  30000,
	})

	assert.Equal(t, "gpt-4o-mini", opts.Model)
	assert.Equal(t, 2, opts.RetryAttempts)
	assert.Equal(t, "30s", opts.Timeout.String())

	// missing timeout falls back to a sane default
	opts = generateOptions(types.LLMSettings{})
	assert.Equal(t, "1m0s", opts.Timeout.String())
}
