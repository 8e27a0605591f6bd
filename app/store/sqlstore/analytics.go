package sqlstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kchat-ai/kchat/pkg/register"
	"github.com/kchat-ai/kchat/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AnalyticsStore = NewAnalyticsStore(provider)
	})
}

// AnalyticsStore aggregates across tables and therefore carries no table of
// its own; every query is read-only.
type AnalyticsStore struct {
	CommonFields
}

func NewAnalyticsStore(provider SqlProviderAchieve) *AnalyticsStore {
	repo := &AnalyticsStore{}
	repo.SetProvider(provider)
	return repo
}

func (s *AnalyticsStore) count(ctx context.Context, dest *int64, query sq.SelectBuilder) error {
	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	return s.GetReplica(ctx).Get(dest, queryString, args...)
}

func (s *AnalyticsStore) Overview(ctx context.Context) (*types.AnalyticsOverview, error) {
	var res types.AnalyticsOverview

	counts := []struct {
		dest  *int64
		query sq.SelectBuilder
	}{
		{&res.Users.Total, sq.Select("COUNT(*)").From(types.TABLE_USER.Name())},
		{&res.Users.Active, sq.Select("COUNT(*)").From(types.TABLE_USER.Name()).
			Where(sq.Eq{"is_active": true})},
		{&res.Chats.Total, sq.Select("COUNT(*)").From(types.TABLE_CHAT.Name())},
		{&res.Chats.Messages, sq.Select("COUNT(*)").From(types.TABLE_CHAT_MESSAGE.Name()).
			Where(sq.Eq{"role": types.MESSAGE_ROLE_USER})},
		{&res.Documents.Total, sq.Select("COUNT(*)").From(types.TABLE_DOCUMENT.Name())},
		{&res.Documents.Indexed, sq.Select("COUNT(*)").From(types.TABLE_DOCUMENT.Name()).
			Where(sq.Eq{"status": types.DOCUMENT_STATUS_INDEXED})},
		{&res.Feedback.Positive, sq.Select("COUNT(*)").From(types.TABLE_CHAT_MESSAGE.Name()).
			Where(sq.Eq{"feedback": types.FEEDBACK_POSITIVE})},
		{&res.Feedback.Negative, sq.Select("COUNT(*)").From(types.TABLE_CHAT_MESSAGE.Name()).
			Where(sq.Eq{"feedback": types.FEEDBACK_NEGATIVE})},
	}

	for _, c := range counts {
		if err := s.count(ctx, c.dest, c.query); err != nil {
			return nil, err
		}
	}

	res.Documents.Pending = res.Documents.Total - res.Documents.Indexed
	return &res, nil
}

func (s *AnalyticsStore) DailyUsage(ctx context.Context, since int64) ([]types.DailyUsage, error) {
	query := sq.Select(
		"to_char(to_timestamp(created_at) AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day",
		"COUNT(*) AS messages").
		From(types.TABLE_CHAT_MESSAGE.Name()).
		Where(sq.Eq{"role": types.MESSAGE_ROLE_USER}).
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.DailyUsage
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *AnalyticsStore) TopUsers(ctx context.Context, limit uint64) ([]types.TopUser, error) {
	query := sq.Select("u.id", "u.username", "u.first_name", "u.last_name",
		"COUNT(c.id) AS chat_count").
		From(types.TABLE_USER.Name() + " u").
		LeftJoin(types.TABLE_CHAT.Name() + " c ON c.user_id = u.id").
		Where(sq.Eq{"u.is_active": true}).
		GroupBy("u.id", "u.username", "u.first_name", "u.last_name").
		OrderBy("chat_count DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var rows []struct {
		ID        string `db:"id"`
		Username  string `db:"username"`
		FirstName string `db:"first_name"`
		LastName  string `db:"last_name"`
		ChatCount int64  `db:"chat_count"`
	}
	if err = s.GetReplica(ctx).Select(&rows, queryString, args...); err != nil {
		return nil, err
	}

	list := make([]types.TopUser, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.FirstName + " " + row.LastName)
		if name == "" {
			name = row.Username
		}
		list = append(list, types.TopUser{
			ID:        row.ID,
			Username:  row.Username,
			Name:      name,
			ChatCount: row.ChatCount,
		})
	}
	return list, nil
}

func (s *AnalyticsStore) TopFolders(ctx context.Context, limit uint64) ([]types.TopFolder, error) {
	query := sq.Select("f.id", "f.name", "f.path",
		"COUNT(DISTINCT d.id) AS document_count",
		"COUNT(DISTINCT uf.user_id) AS user_count").
		From(types.TABLE_FOLDER.Name() + " f").
		LeftJoin(types.TABLE_DOCUMENT.Name() + " d ON d.folder_id = f.id").
		LeftJoin(types.TABLE_USER_FOLDER.Name() + " uf ON uf.folder_id = f.id").
		Where(sq.Eq{"f.status": types.FOLDER_STATUS_ACTIVE}).
		GroupBy("f.id", "f.name", "f.path").
		OrderBy("user_count DESC", "document_count DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.TopFolder
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}

// UnansweredQuestions pairs each ungrounded assistant answer with the user
// question immediately before it in the same chat.
func (s *AnalyticsStore) UnansweredQuestions(ctx context.Context, limit uint64) ([]types.UnansweredQuestion, error) {
	msgTable := types.TABLE_CHAT_MESSAGE.Name()

	query := sq.Select("m.id", "m.created_at").
		Column(sq.Expr("COALESCE((SELECT u.content FROM "+msgTable+" u"+
			" WHERE u.chat_id = m.chat_id AND u.role = ? AND u.created_at <= m.created_at"+
			" ORDER BY u.created_at DESC, u.id DESC LIMIT 1), '') AS question",
			types.MESSAGE_ROLE_USER)).
		From(msgTable + " m").
		Where(sq.Eq{"m.role": types.MESSAGE_ROLE_ASSISTANT, "m.mode": types.KNOWLEDGE_MODE_LLM_ONLY}).
		Where(sq.Expr("(m.sources IS NULL OR m.sources = '[]'::jsonb)")).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.UnansweredQuestion
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}
