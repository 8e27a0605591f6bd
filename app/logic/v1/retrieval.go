package v1

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/types"
)

// FallbackScore is assigned to lexical matches, which carry no vector
// distance. It sits above the default similarity threshold so fallback
// results survive downstream filtering.
const FallbackScore float32 = 0.5

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type RetrievalLogic struct {
	ctx      context.Context
	embedder Embedder
	vectors  store.VectorStore
	chunks   store.ChunkStore
	fallback prometheus.Counter
}

func NewRetrievalLogic(ctx context.Context, core *core.Core) *RetrievalLogic {
	return &RetrievalLogic{
		ctx:      ctx,
		embedder: core.Srv().AI(),
		vectors:  core.Store().VectorStore(),
		chunks:   core.Store().ChunkStore(),
		fallback: core.Metrics().Chat.RetrievalFallback,
	}
}

// Search retrieves the chunks most relevant to query inside allowedFolderIDs.
// An empty folder set is the access gate: it returns an empty result without
// touching the embedding backend or any index. Retrieval failures degrade to
// lexical search and never surface as errors; a chat turn must not die because
// the vector index hiccuped.
func (l *RetrievalLogic) Search(query string, allowedFolderIDs []string, cfg types.RAGSettings) (types.RetrievalResult, bool) {
	if len(allowedFolderIDs) == 0 {
		return types.RetrievalResult{}, false
	}

	topK := uint64(cfg.TopK)

	embedding, err := l.embedder.Embed(l.ctx, query)
	if err != nil {
		slog.Warn("query embedding failed, falling back to lexical search", slog.Any("error", err))
		return l.searchLexical(query, allowedFolderIDs, cfg), true
	}

	ranked, err := l.vectors.Search(l.ctx, store.SearchVectorOptions{
		Embedding: pgvector.NewVector(embedding),
		FolderIDs: allowedFolderIDs,
		Limit:     topK,
		Threshold: cfg.SimilarityThreshold,
	})
	if err != nil {
		slog.Warn("vector search failed, falling back to lexical search", slog.Any("error", err))
		return l.searchLexical(query, allowedFolderIDs, cfg), true
	}

	return types.RetrievalResult{
		Chunks:     capPerDocument(ranked, cfg),
		TotalFound: len(ranked),
	}, false
}

func (l *RetrievalLogic) searchLexical(query string, allowedFolderIDs []string, cfg types.RAGSettings) types.RetrievalResult {
	if l.fallback != nil {
		l.fallback.Inc()
	}

	terms := lexicalTerms(query)
	ranked, err := l.chunks.SearchLexical(l.ctx, allowedFolderIDs, terms, uint64(cfg.TopK))
	if err != nil {
		slog.Error("lexical fallback search failed", slog.Any("error", err))
		return types.RetrievalResult{}
	}

	for i := range ranked {
		ranked[i].Score = FallbackScore
	}

	return types.RetrievalResult{
		Chunks:     capPerDocument(ranked, cfg),
		TotalFound: len(ranked),
	}
}

// lexicalTerms lowercases the query and keeps words longer than two runes.
func lexicalTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, `.,;:!?"'()[]{}`)
		if len([]rune(word)) > 2 {
			terms = append(terms, word)
		}
	}
	return terms
}

// capPerDocument limits how many chunks a single document may contribute,
// preserving rank order. A single long document should not crowd out every
// other source.
func capPerDocument(ranked []types.RankedChunk, cfg types.RAGSettings) []types.RankedChunk {
	if !cfg.DeDuplicate || cfg.MaxChunksPerDocument <= 0 {
		return ranked
	}

	seen := make(map[string]struct{}, len(ranked))
	perDoc := make(map[string]int, len(ranked))
	result := make([]types.RankedChunk, 0, len(ranked))
	for _, chunk := range ranked {
		if _, dup := seen[chunk.ID]; dup {
			continue
		}
		seen[chunk.ID] = struct{}{}
		if perDoc[chunk.DocumentID] >= cfg.MaxChunksPerDocument {
			continue
		}
		perDoc[chunk.DocumentID]++
		result = append(result, chunk)
	}
	return result
}
