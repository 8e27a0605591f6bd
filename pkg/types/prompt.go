package types

type PromptType string

const (
	PROMPT_TYPE_SYSTEM   PromptType = "SYSTEM"
	PROMPT_TYPE_TEMPLATE PromptType = "TEMPLATE"
)

// Prompt content is versioned: editing creates a new row with version+1 rather
// than overwriting history. At most one SYSTEM prompt is active at a time.
type Prompt struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Type      PromptType `json:"type" db:"type"`
	Content   string     `json:"content" db:"content"`
	Version   int        `json:"version" db:"version"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt int64      `json:"created_at" db:"created_at"`
	UpdatedAt int64      `json:"updated_at" db:"updated_at"`
}
