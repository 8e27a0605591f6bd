package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

func (s *HttpSrv) CreateUser(c *gin.Context) {
	var req v1.CreateUserArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	user, err := v1.NewUserLogic(c.Request.Context(), s.Core).CreateUser(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, user)
}

type ListUsersRequest struct {
	Pagination
	Role types.UserRole `json:"role" form:"role"`
}

type ListUsersResponse struct {
	List  []types.User `json:"list"`
	Total int64        `json:"total"`
}

func (s *HttpSrv) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewUserLogic(c.Request.Context(), s.Core).ListUsers(types.GetUsersOptions{
		Role: req.Role,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListUsersResponse{List: list, Total: total})
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	user, err := v1.NewUserLogic(c.Request.Context(), s.Core).GetUser(userID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, user)
}

func (s *HttpSrv) UpdateUser(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	var req v1.UpdateUserArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewUserLogic(c.Request.Context(), s.Core).UpdateUser(userID, req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteUser(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	if err := v1.NewUserLogic(c.Request.Context(), s.Core).DeleteUser(userID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) AssignUserFolder(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	folderID, _ := c.Params.Get("folderid")
	if err := v1.NewUserLogic(c.Request.Context(), s.Core).AssignFolder(userID, folderID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) UnassignUserFolder(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	folderID, _ := c.Params.Get("folderid")
	if err := v1.NewUserLogic(c.Request.Context(), s.Core).UnassignFolder(userID, folderID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) AssignUserGroup(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	groupID, _ := c.Params.Get("groupid")
	if err := v1.NewUserLogic(c.Request.Context(), s.Core).AssignGroup(userID, groupID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) UnassignUserGroup(c *gin.Context) {
	userID, _ := c.Params.Get("userid")
	groupID, _ := c.Params.Get("groupid")
	if err := v1.NewUserLogic(c.Request.Context(), s.Core).UnassignGroup(userID, groupID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) CreateGroup(c *gin.Context) {
	var req v1.GroupArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	group, err := v1.NewGroupLogic(c.Request.Context(), s.Core).CreateGroup(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, group)
}

func (s *HttpSrv) ListGroups(c *gin.Context) {
	var req Pagination
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewGroupLogic(c.Request.Context(), s.Core).ListGroups(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) UpdateGroup(c *gin.Context) {
	groupID, _ := c.Params.Get("groupid")
	var req v1.GroupArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewGroupLogic(c.Request.Context(), s.Core).UpdateGroup(groupID, req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteGroup(c *gin.Context) {
	groupID, _ := c.Params.Get("groupid")
	if err := v1.NewGroupLogic(c.Request.Context(), s.Core).DeleteGroup(groupID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) AssignGroupFolder(c *gin.Context) {
	groupID, _ := c.Params.Get("groupid")
	folderID, _ := c.Params.Get("folderid")
	if err := v1.NewGroupLogic(c.Request.Context(), s.Core).AssignFolder(groupID, folderID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) UnassignGroupFolder(c *gin.Context) {
	groupID, _ := c.Params.Get("groupid")
	folderID, _ := c.Params.Get("folderid")
	if err := v1.NewGroupLogic(c.Request.Context(), s.Core).UnassignFolder(groupID, folderID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
