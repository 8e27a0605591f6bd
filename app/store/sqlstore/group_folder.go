package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.GroupFolderStore = NewGroupFolderStore(provider)
	})
}

type GroupFolderStore struct {
	CommonFields
}

func NewGroupFolderStore(provider SqlProviderAchieve) *GroupFolderStore {
	repo := &GroupFolderStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_GROUP_FOLDER)
	repo.SetAllColumns("group_id", "folder_id", "created_at")
	return repo
}

func (s *GroupFolderStore) Create(ctx context.Context, groupID, folderID string) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(groupID, folderID, time.Now().Unix()).
		Suffix("ON CONFLICT (group_id, folder_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *GroupFolderStore) Delete(ctx context.Context, groupID, folderID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"group_id": groupID, "folder_id": folderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *GroupFolderStore) ListFolderIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := sq.Select("DISTINCT folder_id").From(s.GetTable()).Where(sq.Eq{"group_id": groupIDs})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []string
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GroupFolderStore) DeleteByFolder(ctx context.Context, folderID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"folder_id": folderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *GroupFolderStore) DeleteByGroup(ctx context.Context, groupID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"group_id": groupID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
