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
		provider.stores.SystemSettingsStore = NewSystemSettingsStore(provider)
	})
}

type SystemSettingsStore struct {
	CommonFields
}

func NewSystemSettingsStore(provider SqlProviderAchieve) *SystemSettingsStore {
	repo := &SystemSettingsStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYSTEM_SETTINGS)
	repo.SetAllColumns("id", "settings", "updated_at", "updated_by")
	return repo
}

func (s *SystemSettingsStore) Get(ctx context.Context) (*types.SystemSettings, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"id": types.SYSTEM_SETTINGS_SINGLETON_ID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.SystemSettings
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *SystemSettingsStore) Upsert(ctx context.Context, payload types.SettingsPayload, updatedBy string) error {
	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(types.SYSTEM_SETTINGS_SINGLETON_ID, payload.String(), now, updatedBy).
		Suffix("ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
