package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type ListAuditLogsRequest struct {
	Pagination
	UserID     string `json:"user_id" form:"user_id"`
	Action     string `json:"action" form:"action"`
	EntityType string `json:"entity_type" form:"entity_type"`
	Begin      int64  `json:"begin" form:"begin"`
	End        int64  `json:"end" form:"end"`
}

type ListAuditLogsResponse struct {
	List  []types.AuditLog `json:"list"`
	Total int64            `json:"total"`
}

func (s *HttpSrv) ListAuditLogs(c *gin.Context) {
	var req ListAuditLogsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewAuditLogic(c.Request.Context(), s.Core).List(store.GetAuditLogsOptions{
		UserID:     req.UserID,
		Action:     req.Action,
		EntityType: req.EntityType,
		Begin:      req.Begin,
		End:        req.End,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListAuditLogsResponse{List: list, Total: total})
}
