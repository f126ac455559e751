package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/internal/utils"
	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/app"
)

func newRunbooksCommand(engine *app.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runbooks",
		Short: "Manage trigger/filter/action automations",
		RunE: func(cmd *cobra.Command, args []string) error {
			runbooks, err := engine.GetClient().Runbooks.List(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderRunbooks(runbooks))
			return nil
		},
	}

	cmd.AddCommand(
		newRunbooksCreateCommand(engine),
		newRunbooksGetCommand(engine),
		newRunbooksTriggersCommand(engine),
		newRunbooksSetTriggersCommand(engine),
		newRunbooksSetFiltersCommand(engine),
		newRunbooksSetActionsCommand(engine),
		newRunbooksEnableCommand(engine, true),
		newRunbooksEnableCommand(engine, false),
		newRunbooksDeleteCommand(engine),
	)
	return cmd
}

func newRunbooksCreateCommand(engine *app.Engine) *cobra.Command {
	request := contract.CreateRunbookRequest{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Name = args[0]

			runbook, err := engine.GetClient().Runbooks.Create(cmd.Context(), request)
			if err != nil {
				return loginHint(err)
			}

			cmd.Printf("Created runbook %s (%s)\n", runbook.Name, runbook.Id)
			return nil
		},
	}

	cmd.Flags().StringVar(&request.Description, "description", "", "what the runbook is for")
	return cmd
}

func newRunbooksGetCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "get <runbook-id>",
		Short: "Show one runbook with its full pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runbook, err := engine.GetClient().Runbooks.GetById(cmd.Context(), args[0])
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderRunbookDetail(runbook))
			return nil
		},
	}
}

func newRunbooksTriggersCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "triggers",
		Short: "List the trigger types the backend can evaluate",
		RunE: func(cmd *cobra.Command, args []string) error {
			triggers, err := engine.GetClient().Runbooks.AvailableTriggers(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			for _, trigger := range triggers {
				cmd.Printf("  %s (%s)\n", trigger, utils.ConvertTextFormat(trigger))
			}
			return nil
		},
	}
}

func newRunbooksSetTriggersCommand(engine *app.Engine) *cobra.Command {
	var triggerTypes []string

	cmd := &cobra.Command{
		Use:   "set-triggers <runbook-id>",
		Short: "Replace the trigger configuration of a runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := contract.ConfigureTriggersRequest{RunbookId: args[0]}
			for _, triggerType := range triggerTypes {
				request.Triggers = append(request.Triggers, contract.Trigger{
					TriggerType: strings.ToUpper(triggerType),
				})
			}

			if err := engine.GetClient().Runbooks.ConfigureTriggers(cmd.Context(), request); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Configured %d trigger(s) on runbook %s\n", len(request.Triggers), request.RunbookId)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&triggerTypes, "trigger", nil, "trigger type, repeatable")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func newRunbooksSetFiltersCommand(engine *app.Engine) *cobra.Command {
	request := contract.ConfigureFiltersRequest{}

	cmd := &cobra.Command{
		Use:   "set-filters <runbook-id>",
		Short: "Replace the filter configuration of a runbook",
		Long: `Replaces the filter configuration. Omitting --state or --severity leaves that
dimension unrestricted, the filter then matches any value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.RunbookId = args[0]
			request.State = strings.ToUpper(request.State)
			request.Severity = strings.ToUpper(request.Severity)

			if err := engine.GetClient().Runbooks.ConfigureFilters(cmd.Context(), request); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Configured filters on runbook %s\n", request.RunbookId)
			return nil
		},
	}

	cmd.Flags().StringVar(&request.State, "state", "", "match findings in this state")
	cmd.Flags().StringVar(&request.Severity, "severity", "", "match findings of this severity")
	return cmd
}

func newRunbooksSetActionsCommand(engine *app.Engine) *cobra.Command {
	var toState string
	var ticketCreate bool

	cmd := &cobra.Command{
		Use:   "set-actions <runbook-id>",
		Short: "Replace the action configuration of a runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := contract.ConfigureActionsRequest{
				RunbookId:    args[0],
				TicketCreate: ticketCreate,
			}
			if toState != "" {
				request.Update = &contract.StateUpdate{To: strings.ToUpper(toState)}
			}

			if err := engine.GetClient().Runbooks.ConfigureActions(cmd.Context(), request); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Configured actions on runbook %s\n", request.RunbookId)
			return nil
		},
	}

	cmd.Flags().StringVar(&toState, "to-state", "", "move matched findings to this state")
	cmd.Flags().BoolVar(&ticketCreate, "create-ticket", false, "raise a tracker ticket for matched findings")
	return cmd
}

func newRunbooksEnableCommand(engine *app.Engine, enable bool) *cobra.Command {
	use := "enable <runbook-id>"
	short := "Enable a runbook"
	if !enable {
		use = "disable <runbook-id>"
		short = "Disable a runbook"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.GetClient().Runbooks.SetEnabled(cmd.Context(), args[0], enable); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Runbook %s %sd\n", args[0], strings.Split(use, " ")[0])
			return nil
		},
	}
}

func newRunbooksDeleteCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <runbook-id>",
		Short: "Delete a runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.GetClient().Runbooks.Delete(cmd.Context(), args[0]); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Runbook %s deleted\n", args[0])
			return nil
		},
	}
}
