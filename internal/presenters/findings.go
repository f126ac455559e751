// Package presenters renders console output for findings, tickets, runbooks and dashboards.
// All functions return plain strings, the caller decides where they go.
package presenters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/armorview/go-console-framework/internal/utils"
	"github.com/armorview/go-console-framework/pkg/api"
	"github.com/armorview/go-console-framework/pkg/api/contract"
)

// FindingProperty is one label/value row in a finding rendering. An empty label produces a
// blank separator line.
type FindingProperty struct {
	Label string
	Value string
}

// RenderFindingsPage renders one page of findings with a pagination footer.
func RenderFindingsPage(page contract.FindingsPage, displayPage int) string {
	if len(page.Findings) == 0 {
		return RenderTitle("Findings") + "  No findings match the current filters\n"
	}

	response := RenderTitle("Findings")
	for _, finding := range page.Findings {
		response += RenderFindingSummary(finding)
	}

	response += RenderDivider()
	response += fmt.Sprintf("  Page %d of %d (%d findings total)\n",
		displayPage, page.TotalPages, page.TotalHits)
	return response
}

// RenderFindingSummary renders the one-block list form of a finding.
func RenderFindingSummary(finding contract.Finding) string {
	properties := []FindingProperty{
		{Label: "ID", Value: finding.Id},
		{Label: "State", Value: utils.ConvertTextFormat(finding.State)},
		{Label: "Tool", Value: finding.ToolType},
	}
	if finding.FilePath != "" {
		properties = append(properties, FindingProperty{Label: "Path", Value: finding.FilePath})
	}
	if finding.TicketId != "" {
		properties = append(properties, FindingProperty{Label: "Ticket", Value: finding.TicketId})
	}
	properties = append(properties, FindingProperty{})

	return renderFindingHeader(finding) + getFormattedProperties(properties)
}

// RenderFindingDetail renders the full single-finding view.
func RenderFindingDetail(finding contract.Finding) string {
	properties := []FindingProperty{
		{Label: "ID", Value: finding.Id},
		{Label: "State", Value: utils.ConvertTextFormat(finding.State)},
		{Label: "Tool", Value: finding.ToolType},
		{Label: "CVSS", Value: fmt.Sprintf("%.1f", finding.Cvss)},
	}
	if finding.Cve != "" {
		properties = append(properties, FindingProperty{Label: "CVE", Value: finding.Cve})
	}
	if len(finding.Cwes) > 0 {
		properties = append(properties, FindingProperty{Label: "CWE", Value: strings.Join(finding.Cwes, ", ")})
	}
	if finding.FilePath != "" {
		properties = append(properties, FindingProperty{Label: "Path", Value: finding.FilePath})
	}
	if finding.TicketId != "" {
		properties = append(properties, FindingProperty{Label: "Ticket", Value: finding.TicketId})
	}
	if finding.UpdatedAt != "" {
		properties = append(properties, FindingProperty{Label: "Updated", Value: finding.UpdatedAt})
	}

	response := renderFindingHeader(finding) + getFormattedProperties(properties)

	if finding.Desc != "" {
		response += "\n" + finding.Desc + "\n"
	}
	if finding.Suggestions != "" {
		response += RenderTip(finding.Suggestions + "\n")
	}

	nextStates := contract.PossibleNextStates(finding.State)
	display := make([]string, len(nextStates))
	for i, state := range nextStates {
		display[i] = utils.ConvertTextFormat(state)
	}
	response += fmt.Sprintf("\n  Possible next states: %s\n", strings.Join(display, ", "))
	return response
}

func renderFindingHeader(finding contract.Finding) string {
	return fmt.Sprintf(" %s %s\n",
		renderInSeverityColor(finding.Severity, fmt.Sprintf("✗ [%s]", strings.ToUpper(finding.Severity))),
		renderBold(utils.TruncateText(finding.Title, 90)),
	)
}

func getFormattedProperties(properties []FindingProperty) string {
	formattedProperties := ""
	labelLength := 0

	for _, property := range properties {
		if len(property.Label) > labelLength {
			labelLength = len(property.Label) + 1
		}
	}

	labelAndPropertyFormat := "   %-" + fmt.Sprintf("%d", labelLength) + "s %s\n"

	for _, property := range properties {
		if property.Label == "" {
			formattedProperties += "\n"
			continue
		}
		formattedProperties += fmt.Sprintf(labelAndPropertyFormat, property.Label+":", property.Value)
	}

	return formattedProperties
}

// RenderDistribution renders one dashboard aggregate as a horizontal bar chart.
func RenderDistribution(title string, distribution map[string]int) string {
	if len(distribution) == 0 {
		return RenderTitle(title) + "  No data\n"
	}

	keys := make([]string, 0, len(distribution))
	maxCount := 0
	labelLength := 0
	for key, count := range distribution {
		keys = append(keys, key)
		if count > maxCount {
			maxCount = count
		}
		if len(key) > labelLength {
			labelLength = len(key)
		}
	}
	slices.Sort(keys)

	const barWidth = 40
	rowFormat := "  %-" + fmt.Sprintf("%d", labelLength+1) + "s %s %d\n"

	response := RenderTitle(title)
	for _, key := range keys {
		count := distribution[key]
		width := 0
		if maxCount > 0 {
			width = count * barWidth / maxCount
		}
		if count > 0 && width == 0 {
			width = 1
		}

		bar := renderInSeverityColor(key, strings.Repeat("█", width))
		response += fmt.Sprintf(rowFormat, utils.ConvertTextFormat(key)+":", bar, count)
	}
	return response
}

// DistributionTitle maps a dashboard distribution kind to its display title.
func DistributionTitle(kind string) string {
	switch kind {
	case api.DistributionTool:
		return "Findings by Tool"
	case api.DistributionSeverity:
		return "Findings by Severity"
	case api.DistributionState:
		return "Findings by State"
	case api.DistributionCvss:
		return "Findings by CVSS Range"
	}
	return "Findings"
}
