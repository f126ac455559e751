package presenters

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/muesli/termenv"

	"github.com/armorview/go-console-framework/pkg/api/contract"
)

func Test_RenderFindingDetail_snapshot(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	finding := contract.Finding{
		Id:          "f-1",
		Title:       "Hardcoded credentials",
		Severity:    "CRITICAL",
		State:       "OPEN",
		ToolType:    "SAST",
		Cvss:        9.8,
		Cve:         "CVE-2024-0001",
		Cwes:        []string{"CWE-798"},
		FilePath:    "src/config.go",
		Desc:        "A credential is checked into the repository.",
		Suggestions: "Rotate the credential and load it from the environment.",
	}

	snaps.MatchSnapshot(t, RenderFindingDetail(finding))
}

func Test_RenderRunbookDetail_snapshot(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	runbook := contract.Runbook{
		Id:      "rb-1",
		Name:    "Ticket critical findings",
		Enabled: true,
		Triggers: []contract.Trigger{
			{TriggerType: "FINDING_CREATED"},
		},
		Filters: []contract.Filter{
			{Severity: "CRITICAL"},
		},
		Actions: []contract.Action{
			{Update: &contract.StateUpdate{To: "SUPPRESSED"}, TicketCreate: true},
		},
	}

	snaps.MatchSnapshot(t, RenderRunbookDetail(runbook))
}

func Test_RenderDistribution_snapshot(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	output := RenderDistribution("Findings by Severity", map[string]int{
		"HIGH":   8,
		"LOW":    1,
		"MEDIUM": 4,
	})

	snaps.MatchSnapshot(t, output)
}
