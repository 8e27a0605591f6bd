package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) SendMessage(c *gin.Context) {
	var req v1.SendMessageArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewChatLogic(c.Request.Context(), s.Core).SendMessage(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

type ListChatsResponse struct {
	List  []types.Chat `json:"list"`
	Total int64        `json:"total"`
}

func (s *HttpSrv) ListChats(c *gin.Context) {
	var req Pagination
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewChatLogic(c.Request.Context(), s.Core).ListChats(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListChatsResponse{List: list, Total: total})
}

func (s *HttpSrv) ListChatMessages(c *gin.Context) {
	chatID, _ := c.Params.Get("chatid")
	if chatID == "" {
		response.APIError(c, errors.New("api.ListChatMessages", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	var req Pagination
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewChatLogic(c.Request.Context(), s.Core).ListMessages(chatID, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

type RenameChatRequest struct {
	Title string `json:"title" binding:"required"`
}

func (s *HttpSrv) RenameChat(c *gin.Context) {
	chatID, _ := c.Params.Get("chatid")
	var req RenameChatRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewChatLogic(c.Request.Context(), s.Core).RenameChat(chatID, req.Title); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ArchiveChatRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

func (s *HttpSrv) ArchiveChat(c *gin.Context) {
	chatID, _ := c.Params.Get("chatid")
	var req ArchiveChatRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewChatLogic(c.Request.Context(), s.Core).ArchiveChat(chatID, *req.Archived); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteChat(c *gin.Context) {
	chatID, _ := c.Params.Get("chatid")
	if err := v1.NewChatLogic(c.Request.Context(), s.Core).DeleteChat(chatID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type PreviewChatResponse struct {
	*types.ChatResponse
	PreviewUserID     string `json:"preview_user_id"`
	AccessibleFolders int    `json:"accessible_folders"`
}

func (s *HttpSrv) PreviewChat(c *gin.Context) {
	var req v1.PreviewMessageArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, folders, err := v1.NewChatLogic(c.Request.Context(), s.Core).PreviewAsUser(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, PreviewChatResponse{
		ChatResponse:      result,
		PreviewUserID:     req.UserID,
		AccessibleFolders: folders,
	})
}

func (s *HttpSrv) MessageFeedback(c *gin.Context) {
	messageID, _ := c.Params.Get("messageid")
	var req v1.FeedbackArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewChatLogic(c.Request.Context(), s.Core).Feedback(messageID, req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
