package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AuditLogStore = NewAuditLogStore(provider)
	})
}

type AuditLogStore struct {
	CommonFields
}

func NewAuditLogStore(provider SqlProviderAchieve) *AuditLogStore {
	repo := &AuditLogStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_AUDIT_LOG)
	repo.SetAllColumns("id", "user_id", "action", "entity_type", "entity_id", "details", "ip_address", "created_at")
	return repo
}

func (s *AuditLogStore) Create(ctx context.Context, data types.AuditLog) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.UserID, data.Action, data.EntityType, data.EntityID,
			data.Details.String(), data.IPAddress, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func applyAuditOptions(query sq.SelectBuilder, opts store.GetAuditLogsOptions) sq.SelectBuilder {
	if opts.UserID != "" {
		query = query.Where(sq.Eq{"user_id": opts.UserID})
	}
	if opts.Action != "" {
		query = query.Where(sq.Eq{"action": opts.Action})
	}
	if opts.EntityType != "" {
		query = query.Where(sq.Eq{"entity_type": opts.EntityType})
	}
	if opts.Begin > 0 {
		query = query.Where(sq.GtOrEq{"created_at": opts.Begin})
	}
	if opts.End > 0 {
		query = query.Where(sq.Lt{"created_at": opts.End})
	}
	return query
}

func (s *AuditLogStore) List(ctx context.Context, opts store.GetAuditLogsOptions, page, pageSize uint64) ([]types.AuditLog, error) {
	query := applyAuditOptions(sq.Select(s.GetAllColumns()...).From(s.GetTable()), opts).
		OrderBy("created_at DESC")

	if page != types.NO_PAGING || pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.AuditLog
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *AuditLogStore) Total(ctx context.Context, opts store.GetAuditLogsOptions) (int64, error) {
	query := applyAuditOptions(sq.Select("COUNT(*)").From(s.GetTable()), opts)

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

func (s *AuditLogStore) DeleteBefore(ctx context.Context, before int64) (int64, error) {
	query := sq.Delete(s.GetTable()).Where(sq.Lt{"created_at": before})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
