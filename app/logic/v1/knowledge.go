package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type FolderLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewFolderLogic(ctx context.Context, core *core.Core) *FolderLogic {
	return &FolderLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type CreateFolderArgs struct {
	ParentID      string              `json:"parent_id"`
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	KnowledgeMode types.KnowledgeMode `json:"knowledge_mode"`
	PromptID      string              `json:"prompt_id"`
	Priority      int                 `json:"priority"`
}

func (l *FolderLogic) CreateFolder(args CreateFolderArgs) (*types.Folder, error) {
	if args.KnowledgeMode == "" {
		args.KnowledgeMode = types.KNOWLEDGE_MODE_HYBRID
	}
	if !args.KnowledgeMode.Valid() {
		return nil, pkgerrs.New("FolderLogic.CreateFolder", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	path := "/" + args.Name
	if args.ParentID != "" {
		parent, err := l.core.Store().FolderStore().Get(l.ctx, args.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, pkgerrs.New("FolderLogic.CreateFolder", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
			}
			return nil, pkgerrs.Trace("FolderLogic.CreateFolder", err)
		}
		path = strings.TrimSuffix(parent.Path, "/") + "/" + args.Name
	}

	if _, err := l.core.Store().FolderStore().GetByPath(l.ctx, path); err == nil {
		return nil, pkgerrs.New("FolderLogic.CreateFolder", i18n.ERROR_FOLDER_PATH_EXIST, nil).Code(http.StatusConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrs.Trace("FolderLogic.CreateFolder", err)
	}

	folder := types.Folder{
		ID:            utils.GenRandomID(),
		ParentID:      args.ParentID,
		Name:          args.Name,
		Path:          path,
		Description:   args.Description,
		KnowledgeMode: args.KnowledgeMode,
		PromptID:      args.PromptID,
		Status:        types.FOLDER_STATUS_ACTIVE,
		Priority:      args.Priority,
	}
	if err := l.core.Store().FolderStore().Create(l.ctx, folder); err != nil {
		return nil, pkgerrs.Trace("FolderLogic.CreateFolder", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_FOLDER_CREATE, "folder", folder.ID, types.AuditDetails{
		"path": folder.Path,
		"mode": folder.KnowledgeMode,
	}, "")
	return &folder, nil
}

func (l *FolderLogic) GetFolder(id string) (*types.Folder, error) {
	folder, err := l.core.Store().FolderStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("FolderLogic.GetFolder", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("FolderLogic.GetFolder", err)
	}
	return folder, nil
}

func (l *FolderLogic) ListFolders(opts types.GetFoldersOptions, page, pageSize uint64) ([]types.Folder, int64, error) {
	list, err := l.core.Store().FolderStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, pkgerrs.Trace("FolderLogic.ListFolders", err)
	}
	total, err := l.core.Store().FolderStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, pkgerrs.Trace("FolderLogic.ListFolders", err)
	}
	return list, total, nil
}

type UpdateFolderRequest struct {
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	KnowledgeMode types.KnowledgeMode `json:"knowledge_mode" binding:"required"`
	PromptID      string              `json:"prompt_id"`
	Status        types.FolderStatus  `json:"status" binding:"required"`
	Priority      int                 `json:"priority"`
}

func (l *FolderLogic) UpdateFolder(id string, args UpdateFolderRequest) error {
	if !args.KnowledgeMode.Valid() {
		return pkgerrs.New("FolderLogic.UpdateFolder", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if _, err := l.GetFolder(id); err != nil {
		return err
	}

	if err := l.core.Store().FolderStore().Update(l.ctx, id, types.UpdateFolderArgs{
		Name:          args.Name,
		Description:   args.Description,
		KnowledgeMode: args.KnowledgeMode,
		PromptID:      args.PromptID,
		Status:        args.Status,
		Priority:      args.Priority,
	}); err != nil {
		return pkgerrs.Trace("FolderLogic.UpdateFolder", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_FOLDER_UPDATE, "folder", id, types.AuditDetails{
		"mode":   args.KnowledgeMode,
		"status": args.Status,
	}, "")
	return nil
}

// DeleteFolder removes a folder, its documents, their chunks and vector rows,
// and every access grant pointing at it. Children are detached, not deleted.
func (l *FolderLogic) DeleteFolder(id string) error {
	if _, err := l.GetFolder(id); err != nil {
		return err
	}

	docs, err := l.core.Store().DocumentStore().List(l.ctx, types.GetDocumentsOptions{
		FolderIDs: []string{id},
	}, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		return pkgerrs.Trace("FolderLogic.DeleteFolder", err)
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		for _, doc := range docs {
			if err := l.core.Store().ChunkStore().DeleteByDocument(ctx, doc.ID); err != nil {
				return err
			}
			if err := l.core.Store().DocumentStore().Delete(ctx, doc.ID); err != nil {
				return err
			}
		}
		if err := l.core.Store().VectorStore().DeleteByFolder(ctx, id); err != nil {
			return err
		}
		if err := l.core.Store().UserFolderStore().DeleteByFolder(ctx, id); err != nil {
			return err
		}
		if err := l.core.Store().GroupFolderStore().DeleteByFolder(ctx, id); err != nil {
			return err
		}
		return l.core.Store().FolderStore().Delete(ctx, id)
	})
	if err != nil {
		return pkgerrs.Trace("FolderLogic.DeleteFolder", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_FOLDER_DELETE, "folder", id, types.AuditDetails{
		"documents": len(docs),
	}, "")
	return nil
}

type DocumentLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDocumentLogic(ctx context.Context, core *core.Core) *DocumentLogic {
	return &DocumentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type RegisterDocumentArgs struct {
	FolderID    string `json:"folder_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	FileType    string `json:"file_type" binding:"required"`
	FilePath    string `json:"file_path" binding:"required"`
	ContentHash string `json:"content_hash"`
	FileSize    int64  `json:"file_size"`
}

// RegisterDocument records an uploaded file as PENDING; the ingest sweeper or
// an explicit reindex call picks it up from there.
func (l *DocumentLogic) RegisterDocument(args RegisterDocumentArgs) (*types.Document, error) {
	if _, err := NewFolderLogic(l.ctx, l.core).GetFolder(args.FolderID); err != nil {
		return nil, err
	}

	doc := types.Document{
		ID:          utils.GenRandomID(),
		FolderID:    args.FolderID,
		Name:        args.Name,
		FileType:    strings.ToLower(args.FileType),
		FilePath:    args.FilePath,
		ContentHash: args.ContentHash,
		FileSize:    args.FileSize,
		Status:      types.DOCUMENT_STATUS_PENDING,
	}
	if err := l.core.Store().DocumentStore().Create(l.ctx, doc); err != nil {
		return nil, pkgerrs.Trace("DocumentLogic.RegisterDocument", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_DOCUMENT_CREATE, "document", doc.ID, types.AuditDetails{
		"name":      doc.Name,
		"folder_id": doc.FolderID,
	}, "")
	return &doc, nil
}

func (l *DocumentLogic) GetDocument(id string) (*types.Document, error) {
	doc, err := l.core.Store().DocumentStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("DocumentLogic.GetDocument", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("DocumentLogic.GetDocument", err)
	}
	return doc, nil
}

func (l *DocumentLogic) ListDocuments(opts types.GetDocumentsOptions, page, pageSize uint64) ([]types.Document, int64, error) {
	list, err := l.core.Store().DocumentStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, pkgerrs.Trace("DocumentLogic.ListDocuments", err)
	}
	total, err := l.core.Store().DocumentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, pkgerrs.Trace("DocumentLogic.ListDocuments", err)
	}
	return list, total, nil
}

// DeleteDocument removes the document and both of its derived stores: the
// relational chunks and the vector rows. Vector cleanup is explicit, there is
// no cascade across the two tables.
func (l *DocumentLogic) DeleteDocument(id string) error {
	if _, err := l.GetDocument(id); err != nil {
		return err
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChunkStore().DeleteByDocument(ctx, id); err != nil {
			return err
		}
		if err := l.core.Store().VectorStore().DeleteByDocument(ctx, id); err != nil {
			return err
		}
		return l.core.Store().DocumentStore().Delete(ctx, id)
	})
	if err != nil {
		return pkgerrs.Trace("DocumentLogic.DeleteDocument", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_DOCUMENT_DELETE, "document", id, nil, "")
	return nil
}
