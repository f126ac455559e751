package presenters

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var severityColors = map[string]lipgloss.Color{
	"critical": lipgloss.Color("13"),
	"high":     lipgloss.Color("9"),
	"medium":   lipgloss.Color("11"),
	"low":      lipgloss.Color("12"),
}

func renderBold(str string) string {
	return lipgloss.NewStyle().Bold(true).Render(str)
}

func renderInSeverityColor(severity string, str string) string {
	color, ok := severityColors[strings.ToLower(severity)]
	if !ok {
		return str
	}
	return lipgloss.NewStyle().Foreground(color).Render(str)
}

func renderEnabled(enabled bool) string {
	if enabled {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("enabled")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("disabled")
}

func RenderTitle(str string) string {
	return fmt.Sprintf("\n%s\n\n", renderBold(str))
}

func RenderDivider() string {
	return "─────────────────────────────────────────────────────\n"
}

func RenderTip(str string) string {
	return fmt.Sprintf("\n💡 Tip\n\n   %s", str)
}
