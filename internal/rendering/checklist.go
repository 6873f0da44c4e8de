package rendering

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/memo-analyzer/internal/types"
)

var (
	pendingStyle   = lipgloss.NewStyle().Faint(true)
	loadingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// statusIcon returns the checklist marker for a step status
func statusIcon(status types.StepStatus) string {
	switch status {
	case types.StepStatusLoading:
		return loadingStyle.Render("…")
	case types.StepStatusCompleted:
		return completedStyle.Render("✓")
	case types.StepStatusError:
		return errorStyle.Render("✗")
	default:
		return pendingStyle.Render("○")
	}
}

// Checklist renders a step list as a terminal checklist, one line per step in list order
func Checklist(list types.StepList) string {
	var sb strings.Builder
	for _, step := range list {
		sb.WriteString(ChecklistLine(step))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ChecklistLine renders a single step
func ChecklistLine(step types.Step) string {
	line := statusIcon(step.Status) + " " + EscapeTerminal(step.Title)
	switch {
	case step.Status == types.StepStatusError && step.Error != "":
		line += " " + errorStyle.Render("("+EscapeTerminal(step.Error)+")")
	case step.Message != "":
		line += " " + pendingStyle.Render("- "+EscapeTerminal(step.Message))
	}
	return line
}
