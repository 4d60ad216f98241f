// internal/model/agency.go
package model

// RoleSuperAdmin marks platform operators. They never receive group
// ownership automatically unless no other active agency exists.
const RoleSuperAdmin = "super_admin"

// Agency is an owning organizational unit. This service only reads
// agencies; they are provisioned by the dashboard.
type Agency struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsOperator reports whether the agency is a platform operator account.
func (a Agency) IsOperator() bool {
	return a.Role == RoleSuperAdmin
}
