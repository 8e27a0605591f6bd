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
		provider.stores.UserGroupStore = NewUserGroupStore(provider)
	})
}

type UserGroupStore struct {
	CommonFields
}

func NewUserGroupStore(provider SqlProviderAchieve) *UserGroupStore {
	repo := &UserGroupStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_USER_GROUP)
	repo.SetAllColumns("user_id", "group_id", "created_at")
	return repo
}

func (s *UserGroupStore) Create(ctx context.Context, userID, groupID string) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(userID, groupID, time.Now().Unix()).
		Suffix("ON CONFLICT (user_id, group_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserGroupStore) Delete(ctx context.Context, userID, groupID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "group_id": groupID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UserGroupStore) ListGroupIDs(ctx context.Context, userID string) ([]string, error) {
	query := sq.Select("group_id").From(s.GetTable()).Where(sq.Eq{"user_id": userID})

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

func (s *UserGroupStore) ListUserIDs(ctx context.Context, groupID string) ([]string, error) {
	query := sq.Select("user_id").From(s.GetTable()).Where(sq.Eq{"group_id": groupID})

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

func (s *UserGroupStore) DeleteByGroup(ctx context.Context, groupID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"group_id": groupID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
