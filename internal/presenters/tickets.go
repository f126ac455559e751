package presenters

import (
	"fmt"
	"strings"

	"github.com/armorview/go-console-framework/internal/utils"
	"github.com/armorview/go-console-framework/pkg/api/contract"
)

// RenderTickets renders the ticket list.
func RenderTickets(tickets []contract.Ticket) string {
	if len(tickets) == 0 {
		return RenderTitle("Tickets") + "  No tickets\n"
	}

	response := RenderTitle("Tickets")
	for _, ticket := range tickets {
		response += RenderTicket(ticket)
	}
	return response
}

// RenderTicket renders one ticket.
func RenderTicket(ticket contract.Ticket) string {
	properties := []FindingProperty{
		{Label: "Status", Value: ticket.StatusName},
		{Label: "Type", Value: ticket.IssueTypeName},
		{Label: "Finding", Value: ticket.EsFindingId},
		{},
	}

	return fmt.Sprintf(" %s %s\n",
		renderBold(ticket.TicketId),
		utils.TruncateText(strings.TrimSpace(ticket.Summary), 80),
	) + getFormattedProperties(properties)
}
