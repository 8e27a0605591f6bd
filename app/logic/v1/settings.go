package v1

import (
	"context"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/types"
)

type SettingsLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewSettingsLogic(ctx context.Context, core *core.Core) *SettingsLogic {
	return &SettingsLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

func (l *SettingsLogic) GetSettings() types.SettingsPayload {
	return l.core.Settings(l.ctx)
}

// UpdateSettings replaces the singleton configuration record. The payload is
// normalized first so an admin cannot persist degenerate tunables.
func (l *SettingsLogic) UpdateSettings(payload types.SettingsPayload) (types.SettingsPayload, error) {
	payload = payload.Normalize()
	if err := l.core.Store().SystemSettingsStore().Upsert(l.ctx, payload, l.User); err != nil {
		return types.SettingsPayload{}, pkgerrs.Trace("SettingsLogic.UpdateSettings", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_SETTINGS_UPDATE, "settings", "system", nil, "")
	return payload, nil
}
