package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) CreateFolder(c *gin.Context) {
	var req v1.CreateFolderArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	folder, err := v1.NewFolderLogic(c.Request.Context(), s.Core).CreateFolder(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, folder)
}

type ListFoldersRequest struct {
	Pagination
	Status types.FolderStatus `json:"status" form:"status"`
}

type ListFoldersResponse struct {
	List  []types.Folder `json:"list"`
	Total int64          `json:"total"`
}

func (s *HttpSrv) ListFolders(c *gin.Context) {
	var req ListFoldersRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewFolderLogic(c.Request.Context(), s.Core).ListFolders(types.GetFoldersOptions{
		Status: req.Status,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListFoldersResponse{List: list, Total: total})
}

func (s *HttpSrv) GetFolder(c *gin.Context) {
	folderID, _ := c.Params.Get("folderid")
	folder, err := v1.NewFolderLogic(c.Request.Context(), s.Core).GetFolder(folderID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, folder)
}

func (s *HttpSrv) UpdateFolder(c *gin.Context) {
	folderID, _ := c.Params.Get("folderid")
	var req v1.UpdateFolderRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewFolderLogic(c.Request.Context(), s.Core).UpdateFolder(folderID, req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteFolder(c *gin.Context) {
	folderID, _ := c.Params.Get("folderid")
	if err := v1.NewFolderLogic(c.Request.Context(), s.Core).DeleteFolder(folderID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) RegisterDocument(c *gin.Context) {
	var req v1.RegisterDocumentArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	doc, err := v1.NewDocumentLogic(c.Request.Context(), s.Core).RegisterDocument(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

type ListDocumentsRequest struct {
	Pagination
	FolderID string               `json:"folder_id" form:"folder_id"`
	Status   types.DocumentStatus `json:"status" form:"status"`
}

type ListDocumentsResponse struct {
	List  []types.Document `json:"list"`
	Total int64            `json:"total"`
}

func (s *HttpSrv) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	opts := types.GetDocumentsOptions{Status: req.Status}
	if req.FolderID != "" {
		opts.FolderIDs = []string{req.FolderID}
	}

	list, total, err := v1.NewDocumentLogic(c.Request.Context(), s.Core).ListDocuments(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListDocumentsResponse{List: list, Total: total})
}

func (s *HttpSrv) GetDocument(c *gin.Context) {
	documentID, _ := c.Params.Get("documentid")
	doc, err := v1.NewDocumentLogic(c.Request.Context(), s.Core).GetDocument(documentID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

func (s *HttpSrv) DeleteDocument(c *gin.Context) {
	documentID, _ := c.Params.Get("documentid")
	if err := v1.NewDocumentLogic(c.Request.Context(), s.Core).DeleteDocument(documentID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ReindexDocument(c *gin.Context) {
	documentID, _ := c.Params.Get("documentid")
	if err := v1.NewIngestLogic(c.Request.Context(), s.Core).ReindexDocument(documentID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
