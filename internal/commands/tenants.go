package commands

import (
	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/pkg/app"
)

func newTenantsCommand(engine *app.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants and switch between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenants, err := engine.GetClient().Auth.Tenants(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderTenants(tenants, engine.GetSession().CurrentTenant()))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "switch <tenant-id>",
		Short: "Switch the session to another tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := engine.GetClient().Auth.SwitchTenant(cmd.Context(), args[0])
			if err != nil {
				return loginHint(err)
			}

			cmd.Printf("Switched to tenant %s (%s)\n", tenant.TenantName, tenant.RoleName)
			return nil
		},
	})
	return cmd
}
