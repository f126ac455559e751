package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/pkg/api"
	"github.com/armorview/go-console-framework/pkg/app"
)

var distributionKinds = map[string]string{
	"tool":     api.DistributionTool,
	"severity": api.DistributionSeverity,
	"state":    api.DistributionState,
	"cvss":     api.DistributionCvss,
}

func newDashboardCommand(engine *app.Engine) *cobra.Command {
	var tools []string

	cmd := &cobra.Command{
		Use:   "dashboard [tool|severity|state|cvss]",
		Short: "Show finding distributions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := "severity"
			if len(args) > 0 {
				selected = args[0]
			}

			kind, ok := distributionKinds[selected]
			if !ok {
				return fmt.Errorf("unknown distribution %q, expected tool, severity, state or cvss", selected)
			}

			distribution, err := engine.GetClient().Findings.Distribution(cmd.Context(), kind, tools)
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderDistribution(presenters.DistributionTitle(kind), distribution))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tools, "tool", nil, "restrict the distribution to these tools, repeatable")
	return cmd
}
