package v1

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/samber/lo"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/pkg/ai"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type IngestLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewIngestLogic(ctx context.Context, core *core.Core) *IngestLogic {
	return &IngestLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

// ProcessDocument runs a document through the indexing pipeline:
// PENDING/ERROR -> PROCESSING -> INDEXED, or ERROR with the failure recorded
// on the document so admins can see why.
func (l *IngestLogic) ProcessDocument(documentID string) error {
	doc, err := l.core.Store().DocumentStore().Get(l.ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrs.New("IngestLogic.ProcessDocument", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrs.Trace("IngestLogic.ProcessDocument", err)
	}
	if doc.Status == types.DOCUMENT_STATUS_PROCESSING {
		return nil
	}

	if err = l.core.Store().DocumentStore().UpdateStatus(l.ctx, doc.ID, types.DOCUMENT_STATUS_PROCESSING, ""); err != nil {
		return pkgerrs.Trace("IngestLogic.ProcessDocument", err)
	}

	if err = l.index(doc); err != nil {
		if statusErr := l.core.Store().DocumentStore().UpdateStatus(l.ctx, doc.ID, types.DOCUMENT_STATUS_ERROR, err.Error()); statusErr != nil {
			slog.Error("failed to record document error status",
				slog.String("document_id", doc.ID), slog.Any("error", statusErr))
		}
		return err
	}

	if err = l.core.Store().DocumentStore().MarkIndexed(l.ctx, doc.ID, time.Now().Unix()); err != nil {
		return pkgerrs.Trace("IngestLogic.ProcessDocument", err)
	}
	return nil
}

func (l *IngestLogic) index(doc *types.Document) error {
	settings := l.core.Settings(l.ctx)

	text, err := parseDocument(doc, settings.Ingest.EnabledParsers)
	if err != nil {
		return err
	}

	pieces := ChunkText(text, settings.Ingest.ChunkTargetSize, settings.Ingest.ChunkOverlap)
	if len(pieces) == 0 {
		return pkgerrs.New("IngestLogic.index", i18n.ERROR_DOCUMENT_NO_CONTENT, nil).Code(http.StatusUnprocessableEntity)
	}

	folder, err := l.core.Store().FolderStore().Get(l.ctx, doc.FolderID)
	if err != nil {
		return pkgerrs.Trace("IngestLogic.index", err)
	}

	chunks := make([]types.Chunk, 0, len(pieces))
	vectors := make([]types.ChunkVector, 0, len(pieces))
	for i, piece := range pieces {
		embedding, err := l.core.Srv().AI().Embed(l.ctx, piece)
		if err != nil {
			return pkgerrs.Trace("IngestLogic.index", err)
		}

		id := utils.GenRandomID()
		chunks = append(chunks, types.Chunk{
			ID:         id,
			DocumentID: doc.ID,
			Content:    piece,
			ChunkIndex: i,
			TokenCount: ai.NumTokens(piece),
		})
		vectors = append(vectors, types.ChunkVector{
			ID:           id,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			FolderID:     folder.ID,
			FolderPath:   folder.Path,
			Content:      piece,
			Embedding:    pgvector.NewVector(embedding),
		})
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChunkStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return pkgerrs.Trace("IngestLogic.index", err)
		}
		if err := l.core.Store().VectorStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return pkgerrs.Trace("IngestLogic.index", err)
		}
		if err := l.core.Store().ChunkStore().BatchCreate(ctx, chunks); err != nil {
			return pkgerrs.Trace("IngestLogic.index", err)
		}
		if err := l.core.Store().VectorStore().BatchCreate(ctx, vectors); err != nil {
			return pkgerrs.Trace("IngestLogic.index", err)
		}
		return nil
	})
}

// ReindexDocument forces a fresh pass regardless of current status.
func (l *IngestLogic) ReindexDocument(documentID string) error {
	doc, err := l.core.Store().DocumentStore().Get(l.ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrs.New("IngestLogic.ReindexDocument", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrs.Trace("IngestLogic.ReindexDocument", err)
	}

	if err = l.core.Store().DocumentStore().UpdateStatus(l.ctx, doc.ID, types.DOCUMENT_STATUS_PROCESSING, ""); err != nil {
		return pkgerrs.Trace("IngestLogic.ReindexDocument", err)
	}

	if err = l.index(doc); err != nil {
		if statusErr := l.core.Store().DocumentStore().UpdateStatus(l.ctx, doc.ID, types.DOCUMENT_STATUS_ERROR, err.Error()); statusErr != nil {
			slog.Error("failed to record document error status",
				slog.String("document_id", doc.ID), slog.Any("error", statusErr))
		}
		return err
	}

	if err = l.core.Store().DocumentStore().MarkIndexed(l.ctx, doc.ID, time.Now().Unix()); err != nil {
		return pkgerrs.Trace("IngestLogic.ReindexDocument", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_DOCUMENT_REINDEX, "document", doc.ID, nil, "")
	return nil
}

// SweepPending indexes every PENDING document. Wired to the cron scheduler
// when ingest.autoIngest is on; failures are isolated per document.
func (l *IngestLogic) SweepPending() {
	settings := l.core.Settings(l.ctx)
	if !settings.Ingest.AutoIngest {
		return
	}

	docs, err := l.core.Store().DocumentStore().List(l.ctx, types.GetDocumentsOptions{
		Status: types.DOCUMENT_STATUS_PENDING,
	}, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		slog.Error("failed to list pending documents", slog.Any("error", err))
		return
	}

	for _, doc := range docs {
		if err := l.ProcessDocument(doc.ID); err != nil {
			slog.Error("failed to index document",
				slog.String("document_id", doc.ID),
				slog.String("name", doc.Name),
				slog.Any("error", err))
		}
	}
}

// parseDocument extracts plain text. Only text-native formats are parsed
// in-process; binary formats must arrive pre-extracted as sidecar text.
func parseDocument(doc *types.Document, enabledParsers []string) (string, error) {
	fileType := strings.ToLower(doc.FileType)
	if len(enabledParsers) > 0 && !lo.Contains(enabledParsers, fileType) {
		return "", pkgerrs.New("IngestLogic.parseDocument", i18n.ERROR_UNSUPPORTED_PARSER, nil).Code(http.StatusUnprocessableEntity)
	}

	switch fileType {
	case "txt", "md":
		raw, err := os.ReadFile(doc.FilePath)
		if err != nil {
			return "", pkgerrs.Trace("IngestLogic.parseDocument", err)
		}
		return string(raw), nil
	default:
		return "", pkgerrs.New("IngestLogic.parseDocument", i18n.ERROR_UNSUPPORTED_PARSER, nil).Code(http.StatusUnprocessableEntity)
	}
}
