package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/internal/utils"
	"github.com/armorview/go-console-framework/pkg/api"
	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/app"
)

func newFindingsCommand(engine *app.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "findings",
		Short: "Browse and manage security findings",
	}

	cmd.AddCommand(
		newFindingsListCommand(engine),
		newFindingsGetCommand(engine),
		newFindingsSetStateCommand(engine),
	)
	return cmd
}

func newFindingsListCommand(engine *app.Engine) *cobra.Command {
	params := api.ListFindingsParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List findings, filtered and paginated",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := engine.GetClient().Findings.List(cmd.Context(), params)
			if err != nil {
				return loginHint(err)
			}

			displayPage := params.Page
			if displayPage < 1 {
				displayPage = 1
			}
			cmd.Print(presenters.RenderFindingsPage(page, displayPage))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&params.Severity, "severity", nil, "filter by severity, repeatable")
	cmd.Flags().StringSliceVar(&params.State, "state", nil, "filter by state, repeatable")
	cmd.Flags().StringSliceVar(&params.ToolType, "tool", nil, "filter by scanning tool, repeatable")
	cmd.Flags().IntVar(&params.Page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&params.Size, "size", 10, "findings per page")
	return cmd
}

func newFindingsGetCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "get <finding-id>",
		Short: "Show one finding in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finding, err := engine.GetClient().Findings.GetById(cmd.Context(), args[0])
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderFindingDetail(finding))
			return nil
		},
	}
}

func newFindingsSetStateCommand(engine *app.Engine) *cobra.Command {
	request := contract.UpdateFindingStateRequest{}

	cmd := &cobra.Command{
		Use:   "set-state <finding-id>",
		Short: "Transition a finding to a new state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Id = args[0]

			finding, err := engine.GetClient().Findings.GetById(cmd.Context(), request.Id)
			if err != nil {
				return loginHint(err)
			}

			allowed := contract.PossibleNextStates(finding.State)
			requested := strings.ToUpper(request.FindingState)
			valid := false
			for _, state := range allowed {
				if state == requested {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("cannot move a %s finding to %s, allowed: %s",
					utils.ConvertTextFormat(finding.State), request.FindingState, strings.Join(allowed, ", "))
			}

			request.FindingState = requested
			if request.Tool == "" {
				request.Tool = finding.ToolType
			}

			if err := engine.GetClient().Findings.UpdateState(cmd.Context(), request); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Finding %s moved to %s\n", request.Id, utils.ConvertTextFormat(requested))
			return nil
		},
	}

	cmd.Flags().StringVar(&request.FindingState, "state", "", "target state")
	cmd.Flags().StringVar(&request.Tool, "tool", "", "tool that reported the finding, defaults to the finding's tool")
	cmd.Flags().IntVar(&request.AlertNumber, "alert-number", 0, "tool-native alert number, when the tool has one")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}
