package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style

	Succeeded lipgloss.Style
	Failed    lipgloss.Style
	Skipped   lipgloss.Style
	Canceled  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),

		Succeeded: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Skipped:   lipgloss.NewStyle().Faint(true),
		Canceled:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (t Theme) Status(s domain.LeafStatus) lipgloss.Style {
	switch s {
	case domain.StatusSucceeded:
		return t.Succeeded
	case domain.StatusFailed:
		return t.Failed
	case domain.StatusSkipped:
		return t.Skipped
	case domain.StatusCanceled:
		return t.Canceled
	default:
		return lipgloss.NewStyle()
	}
}
