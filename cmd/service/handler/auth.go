package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) Login(c *gin.Context) {
	var req v1.LoginArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewAuthLogic(c.Request.Context(), s.Core).Login(req, c.ClientIP())
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

func (s *HttpSrv) Profile(c *gin.Context) {
	user, err := v1.NewAuthLogic(c.Request.Context(), s.Core).Profile()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, user)
}
