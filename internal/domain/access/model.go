package access

import "time"

// Role es un permiso administrativo.
// @Enum DEFAULT_ADMIN_ROLE, MINTER_ROLE
type Role string

const (
	RoleAdmin  Role = "DEFAULT_ADMIN_ROLE"
	RoleMinter Role = "MINTER_ROLE"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMinter
}

// Grant es la membresía de una cuenta en un rol.
type Grant struct {
	ID string

	Role    Role
	Account string

	GrantedBy string
	CreatedAt time.Time
}
