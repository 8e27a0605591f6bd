package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kchat-ai/kchat/pkg/types"
)

func TestSelectMode(t *testing.T) {
	chunks := []types.RankedChunk{{ID: "c1", FolderID: "f1"}}

	tests := []struct {
		name      string
		folderIDs []string
		chunks    []types.RankedChunk
		ragOnly   bool
		expect    types.KnowledgeMode
	}{
		{"no accessible folders", nil, chunks, false, types.KNOWLEDGE_MODE_LLM_ONLY},
		{"no retrieved chunks", []string{"f1"}, nil, false, types.KNOWLEDGE_MODE_LLM_ONLY},
		{"rag only folder hit", []string{"f1"}, chunks, true, types.KNOWLEDGE_MODE_RAG_ONLY},
		{"default with context", []string{"f1"}, chunks, false, types.KNOWLEDGE_MODE_HYBRID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, SelectMode(tt.folderIDs, tt.chunks, tt.ragOnly))
		})
	}
}

func TestSelectModeDeterministic(t *testing.T) {
	chunks := []types.RankedChunk{{ID: "a"}, {ID: "b"}}
	first := SelectMode([]string{"f1", "f2"}, chunks, false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SelectMode([]string{"f1", "f2"}, chunks, false))
	}
}

func TestHasRagOnlyChunk(t *testing.T) {
	folders := []types.Folder{
		{ID: "f1", KnowledgeMode: types.KNOWLEDGE_MODE_HYBRID},
		{ID: "f2", KnowledgeMode: types.KNOWLEDGE_MODE_RAG_ONLY},
	}

	assert.False(t, hasRagOnlyChunk(folders, nil))
	assert.False(t, hasRagOnlyChunk(folders, []types.RankedChunk{{FolderID: "f1"}}))
	assert.True(t, hasRagOnlyChunk(folders, []types.RankedChunk{{FolderID: "f1"}, {FolderID: "f2"}}))
	// chunk from an unknown folder carries no policy
	assert.False(t, hasRagOnlyChunk(folders, []types.RankedChunk{{FolderID: "gone"}}))
}
