package types

import (
	"github.com/pgvector/pgvector-go"
)

// Chunk is a bounded slice of a document's text, the unit of retrieval.
// Chunks are immutable once created; reindexing deletes and recreates them.
type Chunk struct {
	ID         string `json:"id" db:"id"`
	DocumentID string `json:"document_id" db:"document_id"`
	Content    string `json:"content" db:"content"`
	ChunkIndex int    `json:"chunk_index" db:"chunk_index"`
	TokenCount int    `json:"token_count" db:"token_count"`
	PageNumber int    `json:"page_number" db:"page_number"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

// ChunkVector is the vector-index row keyed by chunk id. It carries a payload
// mirror of the chunk's origin so retrieval needs no join.
type ChunkVector struct {
	ID           string          `json:"id" db:"id"`
	DocumentID   string          `json:"document_id" db:"document_id"`
	DocumentName string          `json:"document_name" db:"document_name"`
	FolderID     string          `json:"folder_id" db:"folder_id"`
	FolderPath   string          `json:"folder_path" db:"folder_path"`
	Content      string          `json:"content" db:"content"`
	PageNumber   int             `json:"page_number" db:"page_number"`
	Embedding    pgvector.Vector `json:"embedding" db:"embedding"`
	CreatedAt    int64           `json:"created_at" db:"created_at"`
}

// RankedChunk is a retrieval result, ordered by descending score.
type RankedChunk struct {
	ID           string  `json:"id" db:"id"`
	DocumentID   string  `json:"document_id" db:"document_id"`
	DocumentName string  `json:"document_name" db:"document_name"`
	FolderID     string  `json:"folder_id" db:"folder_id"`
	FolderPath   string  `json:"folder_path" db:"folder_path"`
	Content      string  `json:"content" db:"content"`
	PageNumber   int     `json:"page_number" db:"page_number"`
	Score        float32 `json:"score" db:"score"`
}

type RetrievalResult struct {
	Chunks     []RankedChunk `json:"chunks"`
	TotalFound int           `json:"total_found"`
}
