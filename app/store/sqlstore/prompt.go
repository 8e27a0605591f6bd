package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.PromptStore = NewPromptStore(provider)
	})
}

type PromptStore struct {
	CommonFields
}

func NewPromptStore(provider SqlProviderAchieve) *PromptStore {
	repo := &PromptStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PROMPT)
	repo.SetAllColumns("id", "name", "type", "content", "version", "is_active", "created_at", "updated_at")
	return repo
}

func (s *PromptStore) Create(ctx context.Context, data types.Prompt) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Name, data.Type, data.Content, data.Version, data.IsActive,
			data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PromptStore) Get(ctx context.Context, id string) (*types.Prompt, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Prompt
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *PromptStore) GetActive(ctx context.Context, promptType types.PromptType) (*types.Prompt, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"type": promptType, "is_active": true}).
		OrderBy("updated_at DESC").
		Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Prompt
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *PromptStore) List(ctx context.Context, promptType types.PromptType, page, pageSize uint64) ([]types.Prompt, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		OrderBy("name ASC", "version DESC")

	if promptType != "" {
		query = query.Where(sq.Eq{"type": promptType})
	}

	if page != types.NO_PAGING || pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.Prompt
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *PromptStore) LatestVersion(ctx context.Context, name string) (int, error) {
	query := sq.Select("COALESCE(MAX(version), 0)").From(s.GetTable()).Where(sq.Eq{"name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var version int
	if err = s.GetReplica(ctx).Get(&version, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

func (s *PromptStore) DeactivateAll(ctx context.Context, promptType types.PromptType) error {
	query := sq.Update(s.GetTable()).Where(sq.Eq{"type": promptType, "is_active": true}).
		Set("is_active", false).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PromptStore) Activate(ctx context.Context, id string) error {
	query := sq.Update(s.GetTable()).Where(sq.Eq{"id": id}).
		Set("is_active", true).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
