package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) CreatePrompt(c *gin.Context) {
	var req v1.CreatePromptArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	prompt, err := v1.NewPromptLogic(c.Request.Context(), s.Core).CreatePrompt(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, prompt)
}

type ListPromptsRequest struct {
	Pagination
	Type types.PromptType `json:"type" form:"type"`
}

func (s *HttpSrv) ListPrompts(c *gin.Context) {
	var req ListPromptsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewPromptLogic(c.Request.Context(), s.Core).ListPrompts(req.Type, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) UpdatePrompt(c *gin.Context) {
	promptID, _ := c.Params.Get("promptid")
	var req v1.UpdatePromptArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	prompt, err := v1.NewPromptLogic(c.Request.Context(), s.Core).UpdatePrompt(promptID, req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, prompt)
}

func (s *HttpSrv) ActivatePrompt(c *gin.Context) {
	promptID, _ := c.Params.Get("promptid")
	if err := v1.NewPromptLogic(c.Request.Context(), s.Core).ActivatePrompt(promptID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
