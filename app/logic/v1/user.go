package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type CreateUserArgs struct {
	Username  string         `json:"username" binding:"required"`
	Password  string         `json:"password" binding:"required"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      types.UserRole `json:"role"`
}

func (l *UserLogic) CreateUser(args CreateUserArgs) (*types.User, error) {
	if args.Role == "" {
		args.Role = types.USER_ROLE_NORMAL
	}
	if !args.Role.Valid() {
		return nil, pkgerrs.New("UserLogic.CreateUser", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if _, err := l.core.Store().UserStore().GetByUsername(l.ctx, args.Username); err == nil {
		return nil, pkgerrs.New("UserLogic.CreateUser", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrs.Trace("UserLogic.CreateUser", err)
	}

	salt := utils.RandomStr(16)
	user := types.User{
		ID:           utils.GenRandomID(),
		Username:     args.Username,
		Salt:         salt,
		PasswordHash: utils.GenUserPassword(salt, args.Password),
		Email:        args.Email,
		FirstName:    args.FirstName,
		LastName:     args.LastName,
		Role:         args.Role,
		IsActive:     true,
	}
	if err := l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		return nil, pkgerrs.Trace("UserLogic.CreateUser", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_USER_CREATE, "user", user.ID, types.AuditDetails{
		"username": user.Username,
		"role":     user.Role,
	}, "")
	return &user, nil
}

func (l *UserLogic) ListUsers(opts types.GetUsersOptions, page, pageSize uint64) ([]types.User, int64, error) {
	list, err := l.core.Store().UserStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, pkgerrs.Trace("UserLogic.ListUsers", err)
	}
	total, err := l.core.Store().UserStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, pkgerrs.Trace("UserLogic.ListUsers", err)
	}
	return list, total, nil
}

func (l *UserLogic) GetUser(id string) (*types.User, error) {
	user, err := l.core.Store().UserStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("UserLogic.GetUser", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("UserLogic.GetUser", err)
	}
	return user, nil
}

type UpdateUserArgs struct {
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      types.UserRole `json:"role"`
	IsActive  *bool          `json:"is_active"`
	Password  string         `json:"password"`
}

func (l *UserLogic) UpdateUser(id string, args UpdateUserArgs) error {
	user, err := l.GetUser(id)
	if err != nil {
		return err
	}

	if args.Role != "" {
		if !args.Role.Valid() {
			return pkgerrs.New("UserLogic.UpdateUser", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}
		user.Role = args.Role
	}
	if args.Email != "" {
		user.Email = args.Email
	}
	if args.FirstName != "" {
		user.FirstName = args.FirstName
	}
	if args.LastName != "" {
		user.LastName = args.LastName
	}
	if args.IsActive != nil {
		user.IsActive = *args.IsActive
	}

	if err = l.core.Store().UserStore().Update(l.ctx, *user); err != nil {
		return pkgerrs.Trace("UserLogic.UpdateUser", err)
	}

	if args.Password != "" {
		salt := utils.RandomStr(16)
		if err = l.core.Store().UserStore().UpdatePassword(l.ctx, id, salt, utils.GenUserPassword(salt, args.Password)); err != nil {
			return pkgerrs.Trace("UserLogic.UpdateUser", err)
		}
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_USER_UPDATE, "user", id, nil, "")
	return nil
}

func (l *UserLogic) DeleteUser(id string) error {
	if id == l.User {
		return pkgerrs.New("UserLogic.DeleteUser", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	if _, err := l.GetUser(id); err != nil {
		return err
	}
	if err := l.core.Store().UserStore().Delete(l.ctx, id); err != nil {
		return pkgerrs.Trace("UserLogic.DeleteUser", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_USER_DELETE, "user", id, nil, "")
	return nil
}

func (l *UserLogic) AssignFolder(userID, folderID string) error {
	if err := l.core.Store().UserFolderStore().Create(l.ctx, userID, folderID); err != nil {
		return pkgerrs.Trace("UserLogic.AssignFolder", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_USER_FOLDER_ASSIGN, "user", userID, types.AuditDetails{
		"folder_id": folderID,
	}, "")
	return nil
}

func (l *UserLogic) UnassignFolder(userID, folderID string) error {
	if err := l.core.Store().UserFolderStore().Delete(l.ctx, userID, folderID); err != nil {
		return pkgerrs.Trace("UserLogic.UnassignFolder", err)
	}
	return nil
}

func (l *UserLogic) AssignGroup(userID, groupID string) error {
	if err := l.core.Store().UserGroupStore().Create(l.ctx, userID, groupID); err != nil {
		return pkgerrs.Trace("UserLogic.AssignGroup", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_USER_GROUP_ASSIGN, "user", userID, types.AuditDetails{
		"group_id": groupID,
	}, "")
	return nil
}

func (l *UserLogic) UnassignGroup(userID, groupID string) error {
	if err := l.core.Store().UserGroupStore().Delete(l.ctx, userID, groupID); err != nil {
		return pkgerrs.Trace("UserLogic.UnassignGroup", err)
	}
	return nil
}

type GroupLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewGroupLogic(ctx context.Context, core *core.Core) *GroupLogic {
	return &GroupLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type GroupArgs struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (l *GroupLogic) CreateGroup(args GroupArgs) (*types.Group, error) {
	group := types.Group{
		ID:          utils.GenRandomID(),
		Name:        args.Name,
		Description: args.Description,
	}
	if err := l.core.Store().GroupStore().Create(l.ctx, group); err != nil {
		return nil, pkgerrs.Trace("GroupLogic.CreateGroup", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_GROUP_CREATE, "group", group.ID, types.AuditDetails{
		"name": group.Name,
	}, "")
	return &group, nil
}

func (l *GroupLogic) ListGroups(page, pageSize uint64) ([]types.Group, error) {
	list, err := l.core.Store().GroupStore().List(l.ctx, page, pageSize)
	if err != nil {
		return nil, pkgerrs.Trace("GroupLogic.ListGroups", err)
	}
	return list, nil
}

func (l *GroupLogic) UpdateGroup(id string, args GroupArgs) error {
	group, err := l.core.Store().GroupStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pkgerrs.New("GroupLogic.UpdateGroup", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return pkgerrs.Trace("GroupLogic.UpdateGroup", err)
	}

	group.Name = args.Name
	group.Description = args.Description
	if err = l.core.Store().GroupStore().Update(l.ctx, *group); err != nil {
		return pkgerrs.Trace("GroupLogic.UpdateGroup", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_GROUP_UPDATE, "group", id, nil, "")
	return nil
}

// DeleteGroup removes the group together with its memberships and folder
// grants.
func (l *GroupLogic) DeleteGroup(id string) error {
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().UserGroupStore().DeleteByGroup(ctx, id); err != nil {
			return err
		}
		if err := l.core.Store().GroupFolderStore().DeleteByGroup(ctx, id); err != nil {
			return err
		}
		return l.core.Store().GroupStore().Delete(ctx, id)
	})
	if err != nil {
		return pkgerrs.Trace("GroupLogic.DeleteGroup", err)
	}
	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_GROUP_DELETE, "group", id, nil, "")
	return nil
}

func (l *GroupLogic) AssignFolder(groupID, folderID string) error {
	if err := l.core.Store().GroupFolderStore().Create(l.ctx, groupID, folderID); err != nil {
		return pkgerrs.Trace("GroupLogic.AssignFolder", err)
	}
	return nil
}

func (l *GroupLogic) UnassignFolder(groupID, folderID string) error {
	if err := l.core.Store().GroupFolderStore().Delete(l.ctx, groupID, folderID); err != nil {
		return pkgerrs.Trace("GroupLogic.UnassignFolder", err)
	}
	return nil
}
