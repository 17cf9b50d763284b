package model

const (
	RoleUser      = "user"
	RoleChef      = "chef"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles 全部合法角色，顺序用于统计展示
var Roles = []string{RoleUser, RoleChef, RoleModerator, RoleAdmin}

// IsValidRole 判断角色名是否合法
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff 管理员或审核员
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleModerator
}
