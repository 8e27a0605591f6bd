package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/kchat-ai/kchat/pkg/types"
)

// Store is the persistence surface the logic layer talks to. Implementations
// carry transactions through ctx; see sqlstore.Provider.
type Store interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	FolderStore() FolderStore
	DocumentStore() DocumentStore
	ChunkStore() ChunkStore
	VectorStore() VectorStore
	UserStore() UserStore
	GroupStore() GroupStore
	UserFolderStore() UserFolderStore
	UserGroupStore() UserGroupStore
	GroupFolderStore() GroupFolderStore
	ChatStore() ChatStore
	ChatMessageStore() ChatMessageStore
	PromptStore() PromptStore
	SystemSettingsStore() SystemSettingsStore
	AuditLogStore() AuditLogStore
	AnalyticsStore() AnalyticsStore
}

type FolderStore interface {
	Create(ctx context.Context, data types.Folder) error
	Get(ctx context.Context, id string) (*types.Folder, error)
	GetByPath(ctx context.Context, path string) (*types.Folder, error)
	List(ctx context.Context, opts types.GetFoldersOptions, page, pageSize uint64) ([]types.Folder, error)
	Total(ctx context.Context, opts types.GetFoldersOptions) (int64, error)
	Update(ctx context.Context, id string, args types.UpdateFolderArgs) error
	Delete(ctx context.Context, id string) error
}

type DocumentStore interface {
	Create(ctx context.Context, data types.Document) error
	Get(ctx context.Context, id string) (*types.Document, error)
	List(ctx context.Context, opts types.GetDocumentsOptions, page, pageSize uint64) ([]types.Document, error)
	Total(ctx context.Context, opts types.GetDocumentsOptions) (int64, error)
	UpdateStatus(ctx context.Context, id string, status types.DocumentStatus, errorMessage string) error
	MarkIndexed(ctx context.Context, id string, processedAt int64) error
	Delete(ctx context.Context, id string) error
}

type ChunkStore interface {
	BatchCreate(ctx context.Context, datas []types.Chunk) error
	ListByDocument(ctx context.Context, documentID string) ([]types.Chunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	// SearchLexical matches chunks of indexed documents in the given folders
	// whose content contains any of the terms, case-insensitively.
	SearchLexical(ctx context.Context, folderIDs, terms []string, limit uint64) ([]types.RankedChunk, error)
}

type SearchVectorOptions struct {
	Embedding pgvector.Vector
	FolderIDs []string
	Limit     uint64
	Threshold float32
}

type VectorStore interface {
	BatchCreate(ctx context.Context, datas []types.ChunkVector) error
	Search(ctx context.Context, opts SearchVectorOptions) ([]types.RankedChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}

type UserStore interface {
	Create(ctx context.Context, data types.User) error
	Get(ctx context.Context, id string) (*types.User, error)
	GetByUsername(ctx context.Context, username string) (*types.User, error)
	List(ctx context.Context, opts types.GetUsersOptions, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context, opts types.GetUsersOptions) (int64, error)
	Update(ctx context.Context, data types.User) error
	UpdatePassword(ctx context.Context, id, salt, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type GroupStore interface {
	Create(ctx context.Context, data types.Group) error
	Get(ctx context.Context, id string) (*types.Group, error)
	List(ctx context.Context, page, pageSize uint64) ([]types.Group, error)
	Update(ctx context.Context, data types.Group) error
	Delete(ctx context.Context, id string) error
}

type UserFolderStore interface {
	Create(ctx context.Context, userID, folderID string) error
	Delete(ctx context.Context, userID, folderID string) error
	ListFolderIDs(ctx context.Context, userID string) ([]string, error)
	ListUserIDs(ctx context.Context, folderID string) ([]string, error)
	DeleteByFolder(ctx context.Context, folderID string) error
}

type UserGroupStore interface {
	Create(ctx context.Context, userID, groupID string) error
	Delete(ctx context.Context, userID, groupID string) error
	ListGroupIDs(ctx context.Context, userID string) ([]string, error)
	ListUserIDs(ctx context.Context, groupID string) ([]string, error)
	DeleteByGroup(ctx context.Context, groupID string) error
}

type GroupFolderStore interface {
	Create(ctx context.Context, groupID, folderID string) error
	Delete(ctx context.Context, groupID, folderID string) error
	ListFolderIDs(ctx context.Context, groupIDs []string) ([]string, error)
	DeleteByFolder(ctx context.Context, folderID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
}

type ChatStore interface {
	Create(ctx context.Context, data types.Chat) error
	Get(ctx context.Context, id string) (*types.Chat, error)
	List(ctx context.Context, userID string, page, pageSize uint64) ([]types.Chat, error)
	Total(ctx context.Context, userID string) (int64, error)
	UpdateTitle(ctx context.Context, id, title string) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ChatMessageStore interface {
	Create(ctx context.Context, data types.ChatMessage) error
	Get(ctx context.Context, id string) (*types.ChatMessage, error)
	// ListLatest returns the newest n messages of a chat in chronological order.
	ListLatest(ctx context.Context, chatID string, n uint64) ([]types.ChatMessage, error)
	List(ctx context.Context, chatID string, page, pageSize uint64) ([]types.ChatMessage, error)
	UpdateFeedback(ctx context.Context, id string, feedback types.FeedbackType, comment string) error
	DeleteByChat(ctx context.Context, chatID string) error
}

type PromptStore interface {
	Create(ctx context.Context, data types.Prompt) error
	Get(ctx context.Context, id string) (*types.Prompt, error)
	GetActive(ctx context.Context, promptType types.PromptType) (*types.Prompt, error)
	List(ctx context.Context, promptType types.PromptType, page, pageSize uint64) ([]types.Prompt, error)
	// LatestVersion returns the highest version stored under a prompt name.
	LatestVersion(ctx context.Context, name string) (int, error)
	DeactivateAll(ctx context.Context, promptType types.PromptType) error
	Activate(ctx context.Context, id string) error
}

type SystemSettingsStore interface {
	Get(ctx context.Context) (*types.SystemSettings, error)
	Upsert(ctx context.Context, payload types.SettingsPayload, updatedBy string) error
}

type GetAuditLogsOptions struct {
	UserID     string
	Action     string
	EntityType string
	Begin, End int64
}

type AuditLogStore interface {
	Create(ctx context.Context, data types.AuditLog) error
	List(ctx context.Context, opts GetAuditLogsOptions, page, pageSize uint64) ([]types.AuditLog, error)
	Total(ctx context.Context, opts GetAuditLogsOptions) (int64, error)
	DeleteBefore(ctx context.Context, before int64) (int64, error)
}

// AnalyticsStore serves the admin statistics views with read-only aggregate
// queries across the other tables.
type AnalyticsStore interface {
	Overview(ctx context.Context) (*types.AnalyticsOverview, error)
	// DailyUsage counts user messages per day since the given unix timestamp.
	DailyUsage(ctx context.Context, since int64) ([]types.DailyUsage, error)
	TopUsers(ctx context.Context, limit uint64) ([]types.TopUser, error)
	TopFolders(ctx context.Context, limit uint64) ([]types.TopFolder, error)
	// UnansweredQuestions lists questions that got an answer without any
	// document grounding.
	UnansweredQuestions(ctx context.Context, limit uint64) ([]types.UnansweredQuestion, error)
}
