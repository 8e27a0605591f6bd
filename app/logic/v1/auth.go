package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/security"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

type LoginArgs struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt int64      `json:"expires_at"`
	User      types.User `json:"user"`
}

// Login verifies credentials and issues a JWT. Failed attempts are audited
// with the username only; the same error covers unknown user and wrong
// password so logins cannot be used to probe accounts.
func (l *AuthLogic) Login(args LoginArgs, ip string) (*LoginResult, error) {
	user, err := l.core.Store().UserStore().GetByUsername(l.ctx, args.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.auditFailure(args.Username, ip)
			return nil, pkgerrs.New("AuthLogic.Login", i18n.ERROR_INVALID_ACCOUNT, err).Code(http.StatusUnauthorized)
		}
		return nil, pkgerrs.Trace("AuthLogic.Login", err)
	}

	if user.PasswordHash != utils.GenUserPassword(user.Salt, args.Password) {
		l.auditFailure(args.Username, ip)
		return nil, pkgerrs.New("AuthLogic.Login", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	if !user.IsActive {
		return nil, pkgerrs.New("AuthLogic.Login", i18n.ERROR_USER_DISABLED, nil).Code(http.StatusForbidden)
	}

	settings := l.core.Settings(l.ctx)
	lifetime := core.DefaultTokenLifetime
	if settings.Security.SessionLifetimeMinutes > 0 {
		lifetime = time.Duration(settings.Security.SessionLifetimeMinutes) * time.Minute
	}

	lang := settings.General.DefaultLanguage
	claims := security.NewTokenClaims(user.ID, user.Username, string(user.Role), lang, lifetime)
	token, err := security.GenerateJWT(claims, []byte(l.core.Cfg().Security.JWTSecret))
	if err != nil {
		return nil, pkgerrs.Trace("AuthLogic.Login", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(user.ID, types.AUDIT_ACTION_LOGIN, "user", user.ID, nil, ip)

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		User:      *user,
	}, nil
}

func (l *AuthLogic) auditFailure(username, ip string) {
	NewAuditLogic(l.ctx, l.core).Record("", types.AUDIT_ACTION_LOGIN_FAILED, "user", "", types.AuditDetails{
		"username": username,
	}, ip)
}

// Profile returns the calling user's own record.
func (l *AuthLogic) Profile() (*types.User, error) {
	info := SetupUserInfo(l.ctx)
	user, err := l.core.Store().UserStore().Get(l.ctx, info.User)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("AuthLogic.Profile", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("AuthLogic.Profile", err)
	}
	return user, nil
}
