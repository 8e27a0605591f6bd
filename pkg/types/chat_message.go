package types

import (
	"encoding/json"
	"fmt"
)

type MessageUserRole string

const (
	MESSAGE_ROLE_USER      MessageUserRole = "USER"
	MESSAGE_ROLE_ASSISTANT MessageUserRole = "ASSISTANT"
)

type FeedbackType string

const (
	FEEDBACK_NONE     FeedbackType = ""
	FEEDBACK_POSITIVE FeedbackType = "POSITIVE"
	FEEDBACK_NEGATIVE FeedbackType = "NEGATIVE"
)

// Source points a generated answer back at the chunk it was grounded on.
type Source struct {
	DocumentID     string  `json:"document_id"`
	DocumentName   string  `json:"document_name"`
	FolderPath     string  `json:"folder_path"`
	PageNumber     int     `json:"page_number,omitempty"`
	ChunkID        string  `json:"chunk_id"`
	RelevanceScore float32 `json:"relevance_score"`
	Snippet        string  `json:"snippet,omitempty"`
}

type Sources []Source

func (s Sources) String() string {
	if len(s) == 0 {
		return "[]"
	}
	raw, _ := json.Marshal(s)
	return string(raw)
}

func (s *Sources) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return s.scanBytes(src)
	case string:
		return s.scanBytes([]byte(src))
	case nil:
		*s = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to Sources", src)
}

func (s *Sources) scanBytes(src []byte) error {
	if len(src) == 0 {
		*s = Sources{}
		return nil
	}
	return json.Unmarshal(src, s)
}

// ChatMessage is append-only; only the feedback fields may change after
// creation.
type ChatMessage struct {
	ID               string          `json:"id" db:"id"`
	ChatID           string          `json:"chat_id" db:"chat_id"`
	Role             MessageUserRole `json:"role" db:"role"`
	Content          string          `json:"content" db:"content"`
	Mode             KnowledgeMode   `json:"mode" db:"mode"`
	Sources          Sources         `json:"sources" db:"sources"`
	PromptTokens     int             `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens" db:"completion_tokens"`
	Feedback         FeedbackType    `json:"feedback" db:"feedback"`
	FeedbackComment  string          `json:"feedback_comment" db:"feedback_comment"`
	CreatedAt        int64           `json:"created_at" db:"created_at"`
}

// ChatResponse is what the pipeline returns upward to the HTTP layer.
type ChatResponse struct {
	ChatID             string        `json:"chat_id"`
	MessageID          string        `json:"message_id"`
	Content            string        `json:"content"`
	Mode               KnowledgeMode `json:"mode"`
	Sources            []Source      `json:"sources"`
	SuggestedQuestions []string      `json:"suggested_questions"`
}
