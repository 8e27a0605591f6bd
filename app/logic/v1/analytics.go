package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
)

const (
	defaultTopLimit        = 10
	defaultUnansweredLimit = 20
)

type AnalyticsLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewAnalyticsLogic(ctx context.Context, core *core.Core) *AnalyticsLogic {
	return &AnalyticsLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

func (l *AnalyticsLogic) ensureEnabled() error {
	if !l.core.Settings(l.ctx).Analytics.Enabled {
		return pkgerrs.New("AnalyticsLogic.ensureEnabled", i18n.ERROR_ANALYTICS_DISABLED, nil).Code(http.StatusForbidden)
	}
	return nil
}

func (l *AnalyticsLogic) Overview() (*types.AnalyticsOverview, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}
	res, err := l.core.Store().AnalyticsStore().Overview(l.ctx)
	if err != nil {
		return nil, pkgerrs.Trace("AnalyticsLogic.Overview", err)
	}
	return res, nil
}

// Usage returns one entry per day of the period, zero-filled for days without
// any chat activity.
func (l *AnalyticsLogic) Usage(period string) ([]types.DailyUsage, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := periodStart(period, now)

	counts, err := l.core.Store().AnalyticsStore().DailyUsage(l.ctx, from.Unix())
	if err != nil {
		return nil, pkgerrs.Trace("AnalyticsLogic.Usage", err)
	}
	return fillDailyUsage(counts, from, now), nil
}

func (l *AnalyticsLogic) TopUsers(limit uint64) ([]types.TopUser, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultTopLimit
	}
	list, err := l.core.Store().AnalyticsStore().TopUsers(l.ctx, limit)
	if err != nil {
		return nil, pkgerrs.Trace("AnalyticsLogic.TopUsers", err)
	}
	return list, nil
}

func (l *AnalyticsLogic) TopFolders() ([]types.TopFolder, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}
	list, err := l.core.Store().AnalyticsStore().TopFolders(l.ctx, defaultTopLimit)
	if err != nil {
		return nil, pkgerrs.Trace("AnalyticsLogic.TopFolders", err)
	}
	return list, nil
}

func (l *AnalyticsLogic) Unanswered(limit uint64) ([]types.UnansweredQuestion, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultUnansweredLimit
	}
	list, err := l.core.Store().AnalyticsStore().UnansweredQuestions(l.ctx, limit)
	if err != nil {
		return nil, pkgerrs.Trace("AnalyticsLogic.Unanswered", err)
	}
	return list, nil
}

func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "24h":
		return now.Add(-24 * time.Hour)
	case "30d":
		return now.AddDate(0, 0, -30)
	case "90d":
		return now.AddDate(0, 0, -90)
	default: // "7d" and anything unrecognized
		return now.AddDate(0, 0, -7)
	}
}

func fillDailyUsage(counts []types.DailyUsage, from, to time.Time) []types.DailyUsage {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Date] = c.Messages
	}

	var usage []types.DailyUsage
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		usage = append(usage, types.DailyUsage{Date: key, Messages: byDay[key]})
	}
	return usage
}
