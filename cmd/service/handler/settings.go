package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) GetSettings(c *gin.Context) {
	response.APISuccess(c, v1.NewSettingsLogic(c.Request.Context(), s.Core).GetSettings())
}

func (s *HttpSrv) UpdateSettings(c *gin.Context) {
	var req types.SettingsPayload
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	updated, err := v1.NewSettingsLogic(c.Request.Context(), s.Core).UpdateSettings(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, updated)
}
