package v1

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/types"
)

type countingEmbedder struct {
	calls int
	fail  bool
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail {
		return nil, fmt.Errorf("embedding backend down")
	}
	return make([]float32, 4), nil
}

type fakeVectorStore struct {
	store.VectorStore
	result    []types.RankedChunk
	err       error
	calls     int
	lastLimit uint64
}

func (s *fakeVectorStore) Search(ctx context.Context, opts store.SearchVectorOptions) ([]types.RankedChunk, error) {
	s.calls++
	s.lastLimit = opts.Limit
	return s.result, s.err
}

type fakeChunkStore struct {
	store.ChunkStore
	result []types.RankedChunk
	calls  int
}

func (s *fakeChunkStore) SearchLexical(ctx context.Context, folderIDs, terms []string, limit uint64) ([]types.RankedChunk, error) {
	s.calls++
	return s.result, nil
}

func TestSearchEmptyFolders(t *testing.T) {
	embedder := &countingEmbedder{}
	logic := &RetrievalLogic{
		ctx:      context.Background(),
		embedder: embedder,
		vectors:  &fakeVectorStore{},
		chunks:   &fakeChunkStore{},
	}

	result, fallback := logic.Search("anything", nil, types.RAGSettings{TopK: 5})
	assert.Empty(t, result.Chunks)
	assert.False(t, fallback)
	// the access gate must short-circuit before the embedding call
	assert.Zero(t, embedder.calls)
}

func TestSearchVectorPath(t *testing.T) {
	ranked := []types.RankedChunk{
		{ID: "c1", DocumentID: "d1", Score: 0.92},
		{ID: "c2", DocumentID: "d1", Score: 0.85},
	}
	logic := &RetrievalLogic{
		ctx:      context.Background(),
		embedder: &countingEmbedder{},
		vectors:  &fakeVectorStore{result: ranked},
		chunks:   &fakeChunkStore{},
	}

	result, fallback := logic.Search("urlaub regelung", []string{"f1"}, types.RAGSettings{TopK: 5})
	assert.False(t, fallback)
	assert.Len(t, result.Chunks, 2)
	assert.Equal(t, 2, result.TotalFound)
}

func TestSearchFallbackOnEmbeddingFailure(t *testing.T) {
	lexical := &fakeChunkStore{result: []types.RankedChunk{
		{ID: "c1", DocumentID: "d1"},
	}}
	logic := &RetrievalLogic{
		ctx:      context.Background(),
		embedder: &countingEmbedder{fail: true},
		vectors:  &fakeVectorStore{},
		chunks:   lexical,
	}

	result, fallback := logic.Search("urlaub", []string{"f1"}, types.RAGSettings{TopK: 5})
	assert.True(t, fallback)
	assert.Equal(t, 1, lexical.calls)
	if assert.Len(t, result.Chunks, 1) {
		assert.Equal(t, FallbackScore, result.Chunks[0].Score)
	}
}

func TestSearchFallbackOnVectorFailure(t *testing.T) {
	lexical := &fakeChunkStore{result: []types.RankedChunk{{ID: "c1"}}}
	logic := &RetrievalLogic{
		ctx:      context.Background(),
		embedder: &countingEmbedder{},
		vectors:  &fakeVectorStore{err: fmt.Errorf("index unavailable")},
		chunks:   lexical,
	}

	result, fallback := logic.Search("urlaub", []string{"f1"}, types.RAGSettings{TopK: 5})
	assert.True(t, fallback)
	assert.Len(t, result.Chunks, 1)
}

func TestLexicalTerms(t *testing.T) {
	terms := lexicalTerms(`Wie ist die "Urlaubs-Regelung", bitte?`)
	assert.Equal(t, []string{"wie", "die", "urlaubs-regelung", "bitte"}, terms)

	// words of two runes or fewer are dropped
	assert.Nil(t, lexicalTerms("ab zu es"))
}

func TestCapPerDocument(t *testing.T) {
	ranked := []types.RankedChunk{
		{ID: "a", DocumentID: "d1", Score: 0.9},
		{ID: "b", DocumentID: "d1", Score: 0.8},
		{ID: "c", DocumentID: "d2", Score: 0.7},
		{ID: "d", DocumentID: "d1", Score: 0.6},
		{ID: "a", DocumentID: "d1", Score: 0.5}, // duplicate id
	}

	cfg := types.RAGSettings{DeDuplicate: true, MaxChunksPerDocument: 2}
	got := capPerDocument(ranked, cfg)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, got, 3)

	// disabled dedup keeps everything as-is
	got = capPerDocument(ranked, types.RAGSettings{})
	assert.Len(t, got, 5)
}
