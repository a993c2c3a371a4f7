package identity

import (
	"github.com/shopmall/backend/internal/domain/shared"
)

// Role is the access level of a user. Values are stable wire codes.
type Role string

const (
	RoleCustomer        Role = "100"
	RoleBrandAdmin      Role = "200"
	RoleBrandChiefAdmin Role = "201"
	RoleSuperAdmin      Role = "300"
)

// ParseRole validates a role code
func ParseRole(code string) (Role, error) {
	r := Role(code)
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+code)
	}
	return r, nil
}

// IsValid returns true for a known role code
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleBrandAdmin, RoleBrandChiefAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// String returns the role code
func (r Role) String() string {
	return string(r)
}

// CanManageCatalog reports whether the role may write categories, brands and products
func (r Role) CanManageCatalog() bool {
	return r == RoleBrandAdmin || r == RoleBrandChiefAdmin || r == RoleSuperAdmin
}

// CanManageOrders reports whether the role may advance order status
func (r Role) CanManageOrders() bool {
	return r.CanManageCatalog()
}

// AssignableBrandRole returns the role a user of role r grants when attaching
// another user to a brand. SuperAdmin appoints brand chief admins and a brand
// chief admin appoints brand admins; nobody else can assign.
func (r Role) AssignableBrandRole() (Role, bool) {
	switch r {
	case RoleSuperAdmin:
		return RoleBrandChiefAdmin, true
	case RoleBrandChiefAdmin:
		return RoleBrandAdmin, true
	}
	return "", false
}

// CatalogRoles lists the roles allowed to write the catalog
func CatalogRoles() []Role {
	return []Role{RoleBrandAdmin, RoleBrandChiefAdmin, RoleSuperAdmin}
}
