package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/types"
)

type fakeFolderStore struct {
	store.FolderStore
	folders []types.Folder
}

func (s *fakeFolderStore) List(ctx context.Context, opts types.GetFoldersOptions, page, pageSize uint64) ([]types.Folder, error) {
	var result []types.Folder
	for _, f := range s.folders {
		if opts.Status != "" && f.Status != opts.Status {
			continue
		}
		if len(opts.IDs) > 0 && !containsStr(opts.IDs, f.ID) {
			continue
		}
		if len(opts.ParentIDs) > 0 && !containsStr(opts.ParentIDs, f.ParentID) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeUserFolderStore struct {
	store.UserFolderStore
	folderIDs []string
}

func (s *fakeUserFolderStore) ListFolderIDs(ctx context.Context, userID string) ([]string, error) {
	return s.folderIDs, nil
}

type fakeUserGroupStore struct {
	store.UserGroupStore
	groupIDs []string
}

func (s *fakeUserGroupStore) ListGroupIDs(ctx context.Context, userID string) ([]string, error) {
	return s.groupIDs, nil
}

type fakeGroupFolderStore struct {
	store.GroupFolderStore
	folderIDs []string
}

func (s *fakeGroupFolderStore) ListFolderIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	return s.folderIDs, nil
}

func accessFixture() accessDeps {
	return accessDeps{
		folders: &fakeFolderStore{folders: []types.Folder{
			{ID: "hr", Status: types.FOLDER_STATUS_ACTIVE},
			{ID: "hr-sub", ParentID: "hr", Status: types.FOLDER_STATUS_ACTIVE},
			{ID: "hr-old", ParentID: "hr", Status: types.FOLDER_STATUS_ARCHIVED},
			{ID: "hr-sub-sub", ParentID: "hr-sub", Status: types.FOLDER_STATUS_ACTIVE},
			{ID: "finance", Status: types.FOLDER_STATUS_ACTIVE},
		}},
		userFolders:  &fakeUserFolderStore{folderIDs: []string{"hr"}},
		userGroups:   &fakeUserGroupStore{groupIDs: []string{"g1"}},
		groupFolders: &fakeGroupFolderStore{folderIDs: []string{"hr"}},
	}
}

func TestResolveAccessibleFoldersNormalUser(t *testing.T) {
	folders, err := resolveAccessibleFolders(context.Background(), accessFixture(), "u1", types.USER_ROLE_NORMAL)
	assert.NoError(t, err)

	ids := make([]string, 0, len(folders))
	for _, f := range folders {
		ids = append(ids, f.ID)
	}

	// direct grant plus one level of active children; archived child and the
	// grandchild stay invisible
	assert.ElementsMatch(t, []string{"hr", "hr-sub"}, ids)
}

func TestResolveAccessibleFoldersAdminSeesAll(t *testing.T) {
	folders, err := resolveAccessibleFolders(context.Background(), accessFixture(), "admin", types.USER_ROLE_ADMIN)
	assert.NoError(t, err)
	assert.Len(t, folders, 4) // every ACTIVE folder
}

func TestResolveAccessibleFoldersNoGrants(t *testing.T) {
	deps := accessFixture()
	deps.userFolders = &fakeUserFolderStore{}
	deps.userGroups = &fakeUserGroupStore{}

	folders, err := resolveAccessibleFolders(context.Background(), deps, "u1", types.USER_ROLE_NORMAL)
	assert.NoError(t, err)
	assert.Empty(t, folders)
}

func TestResolveAccessibleFoldersGroupGrant(t *testing.T) {
	deps := accessFixture()
	deps.userFolders = &fakeUserFolderStore{}
	deps.groupFolders = &fakeGroupFolderStore{folderIDs: []string{"finance"}}

	folders, err := resolveAccessibleFolders(context.Background(), deps, "u1", types.USER_ROLE_NORMAL)
	assert.NoError(t, err)
	if assert.Len(t, folders, 1) {
		assert.Equal(t, "finance", folders[0].ID)
	}
}
