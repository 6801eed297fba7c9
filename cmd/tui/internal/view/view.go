package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	padded       = lipgloss.NewStyle().Padding(1)
)

var statusColors = map[inventory.Status]lipgloss.Color{
	inventory.StatusActive:     lipgloss.Color("46"),
	inventory.StatusNearExpiry: lipgloss.Color("214"),
	inventory.StatusExpired:    lipgloss.Color("196"),
}

var statusLabels = map[inventory.Status]string{
	inventory.StatusActive:     "Vigente",
	inventory.StatusNearExpiry: "Por vencer",
	inventory.StatusExpired:    "Vencido",
}

func statusText(s inventory.Status) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(statusLabels[s])
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
