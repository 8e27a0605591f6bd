package v1

import (
	"context"

	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/security"
	"github.com/kchat-ai/kchat/pkg/types"
)

type userInfoKey struct{}

type UserInfo struct {
	User     string
	Username string
	Role     types.UserRole
	Lang     string
}

func (u UserInfo) GetUser() string {
	return u.User
}

func (u UserInfo) GetRole() string {
	return string(u.Role)
}

func (u UserInfo) Language() string {
	if u.Lang == "" {
		return i18n.DEFAULT_LANG
	}
	return u.Lang
}

// WithUserInfo stashes the verified token claims in ctx for the logic layer.
func WithUserInfo(ctx context.Context, claims *security.TokenClaims) context.Context {
	return context.WithValue(ctx, userInfoKey{}, UserInfo{
		User:     claims.User,
		Username: claims.Username,
		Role:     types.UserRole(claims.Role),
		Lang:     claims.Lang,
	})
}

func SetupUserInfo(ctx context.Context) UserInfo {
	if info, ok := ctx.Value(userInfoKey{}).(UserInfo); ok {
		return info
	}
	return UserInfo{}
}
