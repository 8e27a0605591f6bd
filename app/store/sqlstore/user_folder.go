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
		provider.stores.UserFolderStore = NewUserFolderStore(provider)
	})
}

type UserFolderStore struct {
	CommonFields
}

func NewUserFolderStore(provider SqlProviderAchieve) *UserFolderStore {
	repo := &UserFolderStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_USER_FOLDER)
	repo.SetAllColumns("user_id", "folder_id", "created_at")
	return repo
}

func (s *UserFolderStore) Create(ctx context.Context, userID, folderID string) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(userID, folderID, time.Now().Unix()).
		Suffix("ON CONFLICT (user_id, folder_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserFolderStore) Delete(ctx context.Context, userID, folderID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "folder_id": folderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserFolderStore) ListFolderIDs(ctx context.Context, userID string) ([]string, error) {
	query := sq.Select("folder_id").From(s.GetTable()).Where(sq.Eq{"user_id": userID})

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

func (s *UserFolderStore) ListUserIDs(ctx context.Context, folderID string) ([]string, error) {
	query := sq.Select("user_id").From(s.GetTable()).Where(sq.Eq{"folder_id": folderID})

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

func (s *UserFolderStore) DeleteByFolder(ctx context.Context, folderID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"folder_id": folderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
