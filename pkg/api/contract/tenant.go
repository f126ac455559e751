package contract

// Tenant is an isolated organizational scope. A user may belong to several tenants but operates
// within exactly one at a time, encoded in the session token.
type Tenant struct {
	TenantId   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	RoleName   string `json:"roleName"`
}

type Role struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// User is the authenticated analyst as returned by /auth/me.
type User struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Roles           []Role `json:"roles"`
	DefaultTenantId string `json:"defaultTenantId,omitempty"`
}

// RoleNames flattens the user's role objects into their names.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// SwitchTenantResponse carries the freshly scoped token issued after a tenant switch.
type SwitchTenantResponse struct {
	Token string `json:"token"`
}
