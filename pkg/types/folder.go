package types

import (
	sq "github.com/Masterminds/squirrel"
)

// KnowledgeMode controls how much of the answer may come from retrieved
// documents versus the model's general knowledge.
type KnowledgeMode string

const (
	KNOWLEDGE_MODE_LLM_ONLY KnowledgeMode = "LLM_ONLY"
	KNOWLEDGE_MODE_HYBRID   KnowledgeMode = "HYBRID"
	KNOWLEDGE_MODE_RAG_ONLY KnowledgeMode = "RAG_ONLY"
)

func (m KnowledgeMode) Valid() bool {
	switch m {
	case KNOWLEDGE_MODE_LLM_ONLY, KNOWLEDGE_MODE_HYBRID, KNOWLEDGE_MODE_RAG_ONLY:
		return true
	default:
		return false
	}
}

type FolderStatus string

const (
	FOLDER_STATUS_ACTIVE   FolderStatus = "ACTIVE"
	FOLDER_STATUS_ARCHIVED FolderStatus = "ARCHIVED"
	FOLDER_STATUS_LOCKED   FolderStatus = "LOCKED"
)

// Folder is the unit of document organization and access control.
// Path is globally unique. KnowledgeMode is the folder's retrieval policy;
// children inherit it by convention only, nothing enforces that structurally.
type Folder struct {
	ID            string        `json:"id" db:"id"`
	ParentID      string        `json:"parent_id" db:"parent_id"`
	Name          string        `json:"name" db:"name"`
	Path          string        `json:"path" db:"path"`
	Description   string        `json:"description" db:"description"`
	KnowledgeMode KnowledgeMode `json:"knowledge_mode" db:"knowledge_mode"`
	PromptID      string        `json:"prompt_id" db:"prompt_id"`
	Status        FolderStatus  `json:"status" db:"status"`
	Priority      int           `json:"priority" db:"priority"`
	CreatedAt     int64         `json:"created_at" db:"created_at"`
	UpdatedAt     int64         `json:"updated_at" db:"updated_at"`
}

type GetFoldersOptions struct {
	IDs       []string
	ParentIDs []string
	Path      string
	Status    FolderStatus
}

func (opts GetFoldersOptions) Apply(query *sq.SelectBuilder) {
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
	if len(opts.ParentIDs) > 0 {
		*query = query.Where(sq.Eq{"parent_id": opts.ParentIDs})
	}
	if opts.Path != "" {
		*query = query.Where(sq.Eq{"path": opts.Path})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}

type UpdateFolderArgs struct {
	Name          string
	Description   string
	KnowledgeMode KnowledgeMode
	PromptID      string
	Status        FolderStatus
	Priority      int
}
