package domain

import "time"

// Role IDs as provisioned in the role catalog. The catalog is small enough
// to live in code; unknown IDs are accepted at signup and resolve to an
// empty role name.
const (
	RoleIDAdmin        int64 = 1
	RoleIDSalesManager int64 = 2
	RoleIDSalesRep     int64 = 3
	RoleIDSupport      int64 = 4
)

const (
	RoleAdmin        = "admin"
	RoleSalesManager = "sales-manager"
	RoleSalesRep     = "sales-rep"
	RoleSupport      = "support"
)

var roleNames = map[int64]string{
	RoleIDAdmin:        RoleAdmin,
	RoleIDSalesManager: RoleSalesManager,
	RoleIDSalesRep:     RoleSalesRep,
	RoleIDSupport:      RoleSupport,
}

// RoleName resolves a role ID to its name, or "" when unknown.
func RoleName(roleID int64) string {
	return roleNames[roleID]
}

// User models an account in the CRM. PasswordHash is excluded from JSON so
// no response payload can ever carry it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"roleId"`
	RoleName     string    `json:"roleName,omitempty"`
	DepartmentID *int64    `json:"departmentId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
