package srv

import (
	"github.com/mikespook/gorbac/v2"

	"github.com/kchat-ai/kchat/pkg/types"
)

const (
	PermissionAdmin  = "admin"
	PermissionManage = "manage"
	PermissionChat   = "chat"
)

// SetupRBACSrv builds the role hierarchy: SUPER_ADMIN > ADMIN > USER. Admins
// manage content and users; only super admins touch system settings.
func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pAdmin := gorbac.NewStdPermission(PermissionAdmin)
	pManage := gorbac.NewStdPermission(PermissionManage)
	pChat := gorbac.NewStdPermission(PermissionChat)

	roleUser := gorbac.NewStdRole(string(types.USER_ROLE_NORMAL))
	roleUser.Assign(pChat)

	roleAdmin := gorbac.NewStdRole(string(types.USER_ROLE_ADMIN))
	roleAdmin.Assign(pManage)

	roleSuper := gorbac.NewStdRole(string(types.USER_ROLE_SUPER_ADMIN))
	roleSuper.Assign(pAdmin)

	rbac.Add(roleUser)
	rbac.Add(roleAdmin)
	rbac.Add(roleSuper)

	rbac.SetParent(string(types.USER_ROLE_ADMIN), string(types.USER_ROLE_NORMAL))
	rbac.SetParent(string(types.USER_ROLE_SUPER_ADMIN), string(types.USER_ROLE_ADMIN))

	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}
