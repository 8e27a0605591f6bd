package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) AnalyticsOverview(c *gin.Context) {
	result, err := v1.NewAnalyticsLogic(c.Request.Context(), s.Core).Overview()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

type AnalyticsUsageRequest struct {
	Period string `json:"period" form:"period"`
}

type AnalyticsUsageResponse struct {
	Usage  []types.DailyUsage `json:"usage"`
	Period string             `json:"period"`
}

func (s *HttpSrv) AnalyticsUsage(c *gin.Context) {
	var req AnalyticsUsageRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Period == "" {
		req.Period = "7d"
	}

	usage, err := v1.NewAnalyticsLogic(c.Request.Context(), s.Core).Usage(req.Period)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, AnalyticsUsageResponse{Usage: usage, Period: req.Period})
}

type AnalyticsLimitRequest struct {
	Limit uint64 `json:"limit" form:"limit"`
}

func (s *HttpSrv) AnalyticsTopUsers(c *gin.Context) {
	var req AnalyticsLimitRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewAnalyticsLogic(c.Request.Context(), s.Core).TopUsers(req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) AnalyticsTopFolders(c *gin.Context) {
	list, err := v1.NewAnalyticsLogic(c.Request.Context(), s.Core).TopFolders()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) AnalyticsUnanswered(c *gin.Context) {
	var req AnalyticsLimitRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewAnalyticsLogic(c.Request.Context(), s.Core).Unanswered(req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}
