package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/types"
)

type AccessLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewAccessLogic(ctx context.Context, core *core.Core) *AccessLogic {
	return &AccessLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type accessDeps struct {
	folders      store.FolderStore
	userFolders  store.UserFolderStore
	userGroups   store.UserGroupStore
	groupFolders store.GroupFolderStore
}

// AccessibleFolders resolves the ACTIVE folders a user may query from:
// direct assignments, group assignments, and the immediate ACTIVE children of
// those. Inheritance stops after one level on purpose; deeper nesting must be
// assigned explicitly.
func (l *AccessLogic) AccessibleFolders(userID string) ([]types.Folder, error) {
	info := l.UserInfo
	deps := accessDeps{
		folders:      l.core.Store().FolderStore(),
		userFolders:  l.core.Store().UserFolderStore(),
		userGroups:   l.core.Store().UserGroupStore(),
		groupFolders: l.core.Store().GroupFolderStore(),
	}
	return resolveAccessibleFolders(l.ctx, deps, userID, info.Role)
}

func (l *AccessLogic) AccessibleFolderIDs(userID string) ([]string, error) {
	folders, err := l.AccessibleFolders(userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(folders, func(f types.Folder, _ int) string { return f.ID }), nil
}

func (l *AccessLogic) CanAccessFolder(userID, folderID string) (bool, error) {
	ids, err := l.AccessibleFolderIDs(userID)
	if err != nil {
		return false, err
	}
	return lo.Contains(ids, folderID), nil
}

func resolveAccessibleFolders(ctx context.Context, deps accessDeps, userID string, role types.UserRole) ([]types.Folder, error) {
	if role == types.USER_ROLE_ADMIN || role == types.USER_ROLE_SUPER_ADMIN {
		folders, err := deps.folders.List(ctx, types.GetFoldersOptions{
			Status: types.FOLDER_STATUS_ACTIVE,
		}, types.NO_PAGING, types.NO_PAGING)
		if err != nil {
			return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
		}
		return folders, nil
	}

	directIDs, err := deps.userFolders.ListFolderIDs(ctx, userID)
	if err != nil {
		return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
	}

	groupIDs, err := deps.userGroups.ListGroupIDs(ctx, userID)
	if err != nil {
		return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
	}

	var groupFolderIDs []string
	if len(groupIDs) > 0 {
		if groupFolderIDs, err = deps.groupFolders.ListFolderIDs(ctx, groupIDs); err != nil {
			return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
		}
	}

	baseIDs := lo.Uniq(append(directIDs, groupFolderIDs...))
	if len(baseIDs) == 0 {
		return nil, nil
	}

	base, err := deps.folders.List(ctx, types.GetFoldersOptions{
		IDs:    baseIDs,
		Status: types.FOLDER_STATUS_ACTIVE,
	}, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
	}
	if len(base) == 0 {
		return nil, nil
	}

	children, err := deps.folders.List(ctx, types.GetFoldersOptions{
		ParentIDs: lo.Map(base, func(f types.Folder, _ int) string { return f.ID }),
		Status:    types.FOLDER_STATUS_ACTIVE,
	}, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		return nil, errors.Trace("AccessLogic.resolveAccessibleFolders", err)
	}

	return lo.UniqBy(append(base, children...), func(f types.Folder) string { return f.ID }), nil
}
