package types

import (
	sq "github.com/Masterminds/squirrel"
)

type DocumentStatus string

const (
	DOCUMENT_STATUS_PENDING    DocumentStatus = "PENDING"
	DOCUMENT_STATUS_PROCESSING DocumentStatus = "PROCESSING"
	DOCUMENT_STATUS_INDEXED    DocumentStatus = "INDEXED"
	DOCUMENT_STATUS_ERROR      DocumentStatus = "ERROR"
)

// Document belongs to exactly one folder. Deleting a document cascades to its
// chunks in the relational store; the vector rows must be cleaned up explicitly.
type Document struct {
	ID           string         `json:"id" db:"id"`
	FolderID     string         `json:"folder_id" db:"folder_id"`
	Name         string         `json:"name" db:"name"`
	FileType     string         `json:"file_type" db:"file_type"`
	FilePath     string         `json:"file_path" db:"file_path"`
	ContentHash  string         `json:"content_hash" db:"content_hash"`
	FileSize     int64          `json:"file_size" db:"file_size"`
	Status       DocumentStatus `json:"status" db:"status"`
	ErrorMessage string         `json:"error_message" db:"error_message"`
	ProcessedAt  int64          `json:"processed_at" db:"processed_at"`
	CreatedAt    int64          `json:"created_at" db:"created_at"`
	UpdatedAt    int64          `json:"updated_at" db:"updated_at"`
}

type GetDocumentsOptions struct {
	IDs       []string
	FolderIDs []string
	Status    DocumentStatus
}

func (opts GetDocumentsOptions) Apply(query *sq.SelectBuilder) {
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
	if len(opts.FolderIDs) > 0 {
		*query = query.Where(sq.Eq{"folder_id": opts.FolderIDs})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}
