package v1

import (
	"github.com/kchat-ai/kchat/pkg/types"
)

// SelectMode derives the effective knowledge mode for a chat turn.
//
//	no accessible folders -> LLM_ONLY (nothing to retrieve from)
//	no retrieved chunks   -> LLM_ONLY (nothing to ground on)
//	any chunk from a      -> RAG_ONLY (the answer must stay inside the
//	RAG_ONLY folder          retrieved context)
//	otherwise             -> HYBRID
//
// ragOnly is resolved by the orchestrator from the retrieved chunks' folder
// policies, so the decision here stays pure.
func SelectMode(folderIDs []string, chunks []types.RankedChunk, ragOnly bool) types.KnowledgeMode {
	if len(folderIDs) == 0 {
		return types.KNOWLEDGE_MODE_LLM_ONLY
	}
	if len(chunks) == 0 {
		return types.KNOWLEDGE_MODE_LLM_ONLY
	}
	if ragOnly {
		return types.KNOWLEDGE_MODE_RAG_ONLY
	}
	return types.KNOWLEDGE_MODE_HYBRID
}
