package commands

import (
	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/app"
)

func newTicketsCommand(engine *app.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Track remediation tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets, err := engine.GetClient().Tickets.List(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderTickets(tickets))
			return nil
		},
	}

	cmd.AddCommand(
		newTicketsGetCommand(engine),
		newTicketsCreateCommand(engine),
		newTicketsDoneCommand(engine),
	)
	return cmd
}

func newTicketsGetCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "get <ticket-id>",
		Short: "Show one ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, err := engine.GetClient().Tickets.GetById(cmd.Context(), args[0])
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderTicket(ticket))
			return nil
		},
	}
}

func newTicketsCreateCommand(engine *app.Engine) *cobra.Command {
	request := contract.CreateTicketRequest{}

	cmd := &cobra.Command{
		Use:   "create <finding-id>",
		Short: "Raise a tracker ticket for a finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.FindingId = args[0]

			ticketId, err := engine.GetClient().Tickets.Create(cmd.Context(), request)
			if err != nil {
				return loginHint(err)
			}

			cmd.Printf("Created ticket %s for finding %s\n", ticketId, request.FindingId)
			return nil
		},
	}

	cmd.Flags().StringVar(&request.Summary, "summary", "", "ticket summary")
	cmd.Flags().StringVar(&request.Description, "description", "", "ticket description")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}

func newTicketsDoneCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "done <finding-id> <ticket-id>",
		Short: "Mark a ticket as done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.GetClient().Tickets.MarkDone(cmd.Context(), args[0], args[1]); err != nil {
				return loginHint(err)
			}

			cmd.Printf("Ticket %s marked done\n", args[1])
			return nil
		},
	}
}
