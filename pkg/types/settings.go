package types

import (
	"encoding/json"
	"fmt"
	"time"
)

const SYSTEM_SETTINGS_SINGLETON_ID = "singleton"

// SystemSettings is the single process-wide configuration record. It is
// re-read per request that needs it; pipeline stages receive a snapshot and
// never mutate it.
type SystemSettings struct {
	ID        string          `json:"id" db:"id"`
	Settings  SettingsPayload `json:"settings" db:"settings"`
	UpdatedAt int64           `json:"updated_at" db:"updated_at"`
	UpdatedBy string          `json:"updated_by" db:"updated_by"`
}

type SettingsPayload struct {
	General   GeneralSettings   `json:"general"`
	Chat      ChatSettings      `json:"chat"`
	LLM       LLMSettings       `json:"llm"`
	RAG       RAGSettings       `json:"rag"`
	Ingest    IngestSettings    `json:"ingest"`
	Logging   LoggingSettings   `json:"logging"`
	Security  SecuritySettings  `json:"security"`
	Analytics AnalyticsSettings `json:"analytics"`
}

type GeneralSettings struct {
	SystemName      string `json:"systemName"`
	DefaultLanguage string `json:"defaultLanguage"`
	SafeMode        bool   `json:"safeMode"`
}

type ChatSettings struct {
	MaxContextTurns    int    `json:"maxContextTurns"`
	NoKnowledgeMessage string `json:"noKnowledgeMessage"`
	SuggestFollowUp    bool   `json:"suggestFollowUp"`
	FollowUpCount      int    `json:"followUpCount"`
	AllowChatReset     bool   `json:"allowChatReset"`
}

type LLMSettings struct {
	Provider        string  `json:"provider"`
	Model           string  `json:"model"`
	EmbeddingModel  string  `json:"embeddingModel"`
	MaxInputTokens  int     `json:"maxInputTokens"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	RequestTimeout  int     `json:"requestTimeout"` // milliseconds
	RetryAttempts   int     `json:"retryAttempts"`
}

func (s LLMSettings) Timeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return time.Minute
	}
	return time.Duration(s.RequestTimeout) * time.Millisecond
}

type RAGSettings struct {
	DefaultMode          string  `json:"defaultMode"`
	TopK                 int     `json:"topK"`
	SimilarityThreshold  float32 `json:"similarityThreshold"`
	MaxChunksPerDocument int     `json:"maxChunksPerDocument"`
	DeDuplicate          bool    `json:"deDuplicate"`
	CitationMode         string  `json:"citationMode"`
}

type IngestSettings struct {
	AutoIngest      bool     `json:"autoIngest"`
	ChunkTargetSize int      `json:"chunkTargetSize"`
	ChunkOverlap    int      `json:"chunkOverlap"`
	EnabledParsers  []string `json:"enabledParsers"`
}

type LoggingSettings struct {
	Level            string `json:"level"`
	LogChatRequests  bool   `json:"logChatRequests"`
	LogChatResponses bool   `json:"logChatResponses"`
	LogSources       bool   `json:"logSources"`
	LogAdminActions  bool   `json:"logAdminActions"`
	RetentionDays    int    `json:"retentionDays"`
}

type SecuritySettings struct {
	SessionLifetimeMinutes int `json:"sessionLifetimeMinutes"`
}

type AnalyticsSettings struct {
	Enabled bool `json:"enabled"`
}

// DefaultSettings mirrors the seeded configuration. Every consumer that reads
// a missing or partial settings record falls back to these values.
func DefaultSettings() SettingsPayload {
	return SettingsPayload{
		General: GeneralSettings{
			SystemName:      "KChat",
			DefaultLanguage: LANGUAGE_DE_KEY,
		},
		Chat: ChatSettings{
			MaxContextTurns: 10,
			SuggestFollowUp: true,
			FollowUpCount:   3,
			AllowChatReset:  true,
		},
		LLM: LLMSettings{
			Provider:        "openai",
			Model:           "gpt-4-turbo-preview",
			EmbeddingModel:  "text-embedding-3-small",
			MaxInputTokens:  8000,
			MaxOutputTokens: 2000,
			Temperature:     0.3,
			TopP:            1.0,
			RequestTimeout:  60000,
			RetryAttempts:   2,
		},
		RAG: RAGSettings{
			DefaultMode:          string(KNOWLEDGE_MODE_HYBRID),
			TopK:                 10,
			SimilarityThreshold:  0.25,
			MaxChunksPerDocument: 3,
			DeDuplicate:          true,
			CitationMode:         "document",
		},
		Ingest: IngestSettings{
			AutoIngest:      true,
			ChunkTargetSize: 500,
			ChunkOverlap:    50,
			EnabledParsers:  []string{"pdf", "docx", "pptx", "txt", "md"},
		},
		Logging: LoggingSettings{
			Level:           "INFO",
			LogChatRequests: true,
			LogAdminActions: true,
			RetentionDays:   90,
		},
		Security: SecuritySettings{
			SessionLifetimeMinutes: 480,
		},
		Analytics: AnalyticsSettings{
			Enabled: true,
		},
	}
}

// Normalize fills zero-valued tunables with their documented defaults so a
// partially written settings record never produces degenerate behavior
// (topK=0, empty model name and the like).
func (p SettingsPayload) Normalize() SettingsPayload {
	def := DefaultSettings()
	if p.General.DefaultLanguage == "" {
		p.General.DefaultLanguage = def.General.DefaultLanguage
	}
	if p.General.SystemName == "" {
		p.General.SystemName = def.General.SystemName
	}
	if p.Chat.MaxContextTurns <= 0 {
		p.Chat.MaxContextTurns = def.Chat.MaxContextTurns
	}
	if p.LLM.Provider == "" {
		p.LLM.Provider = def.LLM.Provider
	}
	if p.LLM.Model == "" {
		p.LLM.Model = def.LLM.Model
	}
	if p.LLM.EmbeddingModel == "" {
		p.LLM.EmbeddingModel = def.LLM.EmbeddingModel
	}
	if p.LLM.MaxOutputTokens <= 0 {
		p.LLM.MaxOutputTokens = def.LLM.MaxOutputTokens
	}
	if p.LLM.Temperature <= 0 {
		p.LLM.Temperature = def.LLM.Temperature
	}
	if p.LLM.TopP <= 0 {
		p.LLM.TopP = def.LLM.TopP
	}
	if p.LLM.RequestTimeout <= 0 {
		p.LLM.RequestTimeout = def.LLM.RequestTimeout
	}
	if p.RAG.TopK <= 0 {
		p.RAG.TopK = def.RAG.TopK
	}
	if p.RAG.SimilarityThreshold <= 0 {
		p.RAG.SimilarityThreshold = def.RAG.SimilarityThreshold
	}
	if p.RAG.MaxChunksPerDocument <= 0 {
		p.RAG.MaxChunksPerDocument = def.RAG.MaxChunksPerDocument
	}
	if p.Ingest.ChunkTargetSize <= 0 {
		p.Ingest.ChunkTargetSize = def.Ingest.ChunkTargetSize
	}
	if p.Ingest.ChunkOverlap < 0 {
		p.Ingest.ChunkOverlap = def.Ingest.ChunkOverlap
	}
	return p
}

func (p SettingsPayload) String() string {
	raw, _ := json.Marshal(p)
	return string(raw)
}

func (p *SettingsPayload) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return p.scanBytes(src)
	case string:
		return p.scanBytes([]byte(src))
	case nil:
		*p = DefaultSettings()
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to SettingsPayload", src)
}

func (p *SettingsPayload) scanBytes(src []byte) error {
	if len(src) == 0 {
		*p = DefaultSettings()
		return nil
	}
	return json.Unmarshal(src, p)
}
