package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/app"
)

func newScanCommand(engine *app.Engine) *cobra.Command {
	request := contract.ScanRequest{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Trigger a scan run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !request.ScanAll && len(request.ToolsToScan) == 0 {
				return fmt.Errorf("nothing to scan, pass --tool or --all")
			}

			if err := engine.GetClient().Scan.Trigger(cmd.Context(), request); err != nil {
				return loginHint(err)
			}

			cmd.Println("Scan requested, findings will appear once the pipeline has run")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&request.ToolsToScan, "tool", nil, "scan with this tool, repeatable")
	cmd.Flags().BoolVar(&request.ScanAll, "all", false, "scan with every available tool")
	return cmd
}
