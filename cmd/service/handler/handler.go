package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kchat-ai/kchat/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

type Pagination struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required"`
}
