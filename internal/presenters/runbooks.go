package presenters

import (
	"fmt"
	"strings"

	"github.com/armorview/go-console-framework/internal/utils"
	"github.com/armorview/go-console-framework/pkg/api/contract"
)

// RenderRunbooks renders the runbook list.
func RenderRunbooks(runbooks []contract.Runbook) string {
	if len(runbooks) == 0 {
		return RenderTitle("Runbooks") + "  No runbooks configured\n"
	}

	response := RenderTitle("Runbooks")
	for _, runbook := range runbooks {
		state := renderEnabled(runbook.Enabled)
		if !runbook.Configured() {
			state = "not configured"
		}

		response += fmt.Sprintf(" %s %s (%s)\n   %s\n\n",
			renderBold(runbook.Name),
			runbook.Id,
			state,
			utils.TruncateText(runbook.Description, 80),
		)
	}
	return response
}

// RenderRunbookDetail renders one runbook with its full trigger/filter/action pipeline.
func RenderRunbookDetail(runbook contract.Runbook) string {
	response := RenderTitle(runbook.Name)
	response += getFormattedProperties([]FindingProperty{
		{Label: "ID", Value: runbook.Id},
		{Label: "State", Value: renderEnabled(runbook.Enabled)},
		{Label: "Configured", Value: fmt.Sprintf("%t", runbook.Configured())},
		{},
	})

	response += "  Triggers:\n" + renderTriggers(runbook.Triggers)
	response += "  Filters:\n" + renderFilters(runbook.Filters)
	response += "  Actions:\n" + renderActions(runbook.Actions)

	if !runbook.Configured() {
		response += RenderTip("This runbook stays inert until triggers, filters and actions are all configured.\n")
	}
	return response
}

func renderTriggers(triggers []contract.Trigger) string {
	if len(triggers) == 0 {
		return "    (none)\n"
	}

	response := ""
	for _, trigger := range triggers {
		response += fmt.Sprintf("    - %s\n", utils.ConvertTextFormat(trigger.TriggerType))
	}
	return response
}

func renderFilters(filters []contract.Filter) string {
	if len(filters) == 0 {
		return "    (none)\n"
	}

	response := ""
	for _, filter := range filters {
		var parts []string
		if filter.State != "" {
			parts = append(parts, "state="+utils.ConvertTextFormat(filter.State))
		}
		if filter.Severity != "" {
			parts = append(parts, "severity="+utils.ConvertTextFormat(filter.Severity))
		}
		if len(parts) == 0 {
			parts = append(parts, "any finding")
		}
		response += fmt.Sprintf("    - %s\n", strings.Join(parts, ", "))
	}
	return response
}

func renderActions(actions []contract.Action) string {
	if len(actions) == 0 {
		return "    (none)\n"
	}

	response := ""
	for _, action := range actions {
		var parts []string
		if action.Update != nil {
			parts = append(parts, "move to "+utils.ConvertTextFormat(action.Update.To))
		}
		if action.TicketCreate {
			parts = append(parts, "create ticket")
		}
		if len(parts) == 0 {
			parts = append(parts, "no-op")
		}
		response += fmt.Sprintf("    - %s\n", strings.Join(parts, ", "))
	}
	return response
}
