package v1

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/types"
)

type fakeAnalyticsStore struct {
	store.AnalyticsStore
	overview *types.AnalyticsOverview
}

func (s *fakeAnalyticsStore) Overview(ctx context.Context) (*types.AnalyticsOverview, error) {
	return s.overview, nil
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), periodStart("24h", now))
	assert.Equal(t, now.AddDate(0, 0, -7), periodStart("7d", now))
	assert.Equal(t, now.AddDate(0, 0, -30), periodStart("30d", now))
	assert.Equal(t, now.AddDate(0, 0, -90), periodStart("90d", now))

	// anything unrecognized falls back to a week
	assert.Equal(t, now.AddDate(0, 0, -7), periodStart("yesterday", now))
}

func TestFillDailyUsage(t *testing.T) {
	from := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	counts := []types.DailyUsage{
		{Date: "2026-08-25", Messages: 4},
		{Date: "2026-08-27", Messages: 1},
	}

	usage := fillDailyUsage(counts, from, to)
	require.Len(t, usage, 4)
	assert.Equal(t, types.DailyUsage{Date: "2026-08-25", Messages: 4}, usage[0])
	assert.Equal(t, types.DailyUsage{Date: "2026-08-26", Messages: 0}, usage[1])
	assert.Equal(t, types.DailyUsage{Date: "2026-08-27", Messages: 1}, usage[2])
	assert.Equal(t, types.DailyUsage{Date: "2026-08-28", Messages: 0}, usage[3])
}

func TestAnalyticsDisabled(t *testing.T) {
	f := newChatFixture()
	f.store.settings.payload.Analytics.Enabled = false

	_, err := NewAnalyticsLogic(f.ctx, f.core).Overview()
	assert.Error(t, err)
	_, err = NewAnalyticsLogic(f.ctx, f.core).Usage("7d")
	assert.Error(t, err)
}

func TestAnalyticsOverview(t *testing.T) {
	f := newChatFixture()
	f.store.analytics.overview = &types.AnalyticsOverview{
		Users: types.AnalyticsUserStats{Total: 12, Active: 10},
	}

	got, err := NewAnalyticsLogic(f.ctx, f.core).Overview()
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Users.Total)
}
