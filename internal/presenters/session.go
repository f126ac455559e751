package presenters

import (
	"fmt"
	"strings"

	"github.com/armorview/go-console-framework/pkg/api/contract"
)

// RenderUser renders the current user and tenant context.
func RenderUser(user contract.User, currentTenant *contract.Tenant) string {
	properties := []FindingProperty{
		{Label: "Name", Value: user.Name},
		{Label: "Email", Value: user.Email},
	}
	if len(user.Roles) > 0 {
		properties = append(properties, FindingProperty{Label: "Roles", Value: strings.Join(user.RoleNames(), ", ")})
	}
	if currentTenant != nil {
		properties = append(properties, FindingProperty{
			Label: "Tenant",
			Value: fmt.Sprintf("%s (%s)", currentTenant.TenantName, currentTenant.RoleName),
		})
	}

	return RenderTitle("Logged in as") + getFormattedProperties(properties)
}

// RenderTenants renders the tenant memberships, marking the active one.
func RenderTenants(tenants []contract.Tenant, currentTenant *contract.Tenant) string {
	if len(tenants) == 0 {
		return RenderTitle("Tenants") + "  No tenant memberships\n"
	}

	response := RenderTitle("Tenants")
	for _, tenant := range tenants {
		marker := " "
		if currentTenant != nil && tenant.TenantId == currentTenant.TenantId {
			marker = "*"
		}
		response += fmt.Sprintf(" %s %s %s (%s)\n", marker, tenant.TenantId, renderBold(tenant.TenantName), tenant.RoleName)
	}
	return response
}
