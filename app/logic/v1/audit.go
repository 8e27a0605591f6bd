package v1

import (
	"context"
	"log/slog"
	"time"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/safe"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type AuditLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewAuditLogic(ctx context.Context, core *core.Core) *AuditLogic {
	return &AuditLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

// Record writes an audit entry without blocking the caller. Auditing is
// best-effort: a failed insert is logged, never surfaced.
func (l *AuditLogic) Record(userID, action, entityType, entityID string, details types.AuditDetails, ip string) {
	auditStore := l.core.Store().AuditLogStore()
	go safe.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := auditStore.Create(ctx, types.AuditLog{
			ID:         utils.GenRandomID(),
			UserID:     userID,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
			IPAddress:  ip,
		}); err != nil {
			slog.Error("failed to write audit log",
				slog.String("action", action),
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
	})
}

func (l *AuditLogic) List(opts store.GetAuditLogsOptions, page, pageSize uint64) ([]types.AuditLog, int64, error) {
	list, err := l.core.Store().AuditLogStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.Trace("AuditLogic.List", err)
	}

	total, err := l.core.Store().AuditLogStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.Trace("AuditLogic.Total", err)
	}
	return list, total, nil
}

// Cleanup enforces the configured retention window.
func (l *AuditLogic) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	before := time.Now().AddDate(0, 0, -retentionDays).Unix()
	deleted, err := l.core.Store().AuditLogStore().DeleteBefore(l.ctx, before)
	if err != nil {
		return 0, errors.Trace("AuditLogic.Cleanup", err)
	}
	return deleted, nil
}
