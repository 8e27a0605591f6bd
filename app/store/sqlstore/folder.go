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
		provider.stores.FolderStore = NewFolderStore(provider)
	})
}

type FolderStore struct {
	CommonFields
}

func NewFolderStore(provider SqlProviderAchieve) *FolderStore {
	repo := &FolderStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_FOLDER)
	repo.SetAllColumns("id", "parent_id", "name", "path", "description", "knowledge_mode",
		"prompt_id", "status", "priority", "created_at", "updated_at")
	return repo
}

func (s *FolderStore) Create(ctx context.Context, data types.Folder) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ParentID, data.Name, data.Path, data.Description, data.KnowledgeMode,
			data.PromptID, data.Status, data.Priority, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *FolderStore) Get(ctx context.Context, id string) (*types.Folder, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Folder
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *FolderStore) GetByPath(ctx context.Context, path string) (*types.Folder, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"path": path})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Folder
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *FolderStore) List(ctx context.Context, opts types.GetFoldersOptions, page, pageSize uint64) ([]types.Folder, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		OrderBy("priority DESC", "path ASC")
	opts.Apply(&query)

	if page != types.NO_PAGING || pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.Folder
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *FolderStore) Total(ctx context.Context, opts types.GetFoldersOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *FolderStore) Update(ctx context.Context, id string, args types.UpdateFolderArgs) error {
	query := sq.Update(s.GetTable()).Where(sq.Eq{"id": id}).
		Set("name", args.Name).
		Set("description", args.Description).
		Set("knowledge_mode", args.KnowledgeMode).
		Set("prompt_id", args.PromptID).
		Set("status", args.Status).
		Set("priority", args.Priority).
		Set("updated_at", time.Now().Unix())

	queryString, queryArgs, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, queryArgs...)
	return err
}

func (s *FolderStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
