package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

var priorityColors = map[inventory.Priority]lipgloss.Color{
	inventory.PriorityLow:    lipgloss.Color("245"),
	inventory.PriorityMedium: lipgloss.Color("214"),
	inventory.PriorityHigh:   lipgloss.Color("196"),
}

type AlertModel struct {
	svc *inventory.Service

	alerts  []*inventory.Alert
	cursor  int
	showAll bool

	loading bool
	status  string
}

func NewAlertModel(svc *inventory.Service) AlertModel {
	return AlertModel{
		svc:     svc,
		loading: true,
	}
}

func (m AlertModel) Title() string { return "Alerts" }

func (m AlertModel) ShortHelp() string {
	return "Esc: back | Enter: mark read | x: sweep expiry | y: sync lots | a: all/unread"
}

func (m AlertModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AlertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.alerts)-1 {
				m.cursor++
			}
		case "enter":
			if a := m.current(); a != nil && !a.Read {
				return m, m.markReadCmd(a)
			}
		case "a":
			m.showAll = !m.showAll
			return m, m.loadCmd()
		case "x":
			m.status = "Sweeping..."
			return m, m.sweepCmd()
		case "y":
			m.status = "Syncing..."
			return m, m.syncCmd()
		}

	case loadAlertsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.alerts = msg.alerts
		m.cursor = min(m.cursor, max(len(m.alerts)-1, 0))

	case alertActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.summary

		return m, m.loadCmd()
	}

	return m, nil
}

func (m AlertModel) current() *inventory.Alert {
	if m.cursor < 0 || m.cursor >= len(m.alerts) {
		return nil
	}

	return m.alerts[m.cursor]
}

func (m AlertModel) View() string {
	if m.loading {
		return "Loading alerts..."
	}

	var b strings.Builder

	scope := "unread"
	if m.showAll {
		scope = "all"
	}

	fmt.Fprintf(&b, "Alerts (%s, %d)\n\n", activeStyle(scope), len(m.alerts))

	if len(m.alerts) == 0 {
		b.WriteString("Nothing to review.\n")
	}

	for i, a := range m.alerts {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %-8s %s",
			cursor,
			FormatDate(a.CreatedAt),
			lipgloss.NewStyle().Foreground(priorityColors[a.Priority]).Render(string(a.Priority)),
			a.Message,
		)

		if a.Read {
			line = faintStyle.Render(line)
		}

		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status))
	}

	b.WriteString("\n\n" + m.ShortHelp())

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

// Messages

type loadAlertsMsg struct {
	alerts []*inventory.Alert
	err    error
}

func (m AlertModel) loadCmd() tea.Cmd {
	unreadOnly := !m.showAll

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		alerts, err := m.svc.ListAlerts(ctx, unreadOnly)

		return loadAlertsMsg{alerts: alerts, err: err}
	}
}

type alertActionMsg struct {
	summary string
	err     error
}

func (m AlertModel) markReadCmd(a *inventory.Alert) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.MarkAlertRead(ctx, a.ID); err != nil {
			return alertActionMsg{err: err}
		}

		return alertActionMsg{summary: "Marked as read."}
	}
}

func (m AlertModel) sweepCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.svc.SweepExpiry(ctx, time.Now())
		if errors.Is(err, inventory.ErrJobInProgress) {
			return alertActionMsg{summary: "A sweep is already running."}
		}

		if err != nil {
			return alertActionMsg{err: err}
		}

		return alertActionMsg{summary: fmt.Sprintf(
			"Checked %d lots, %d changed status, %d new alerts.", res.Checked, res.Transitions, len(res.Alerts),
		)}
	}
}

func (m AlertModel) syncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.svc.SyncLots(ctx)
		if errors.Is(err, inventory.ErrJobInProgress) {
			return alertActionMsg{summary: "A sync is already running."}
		}

		if err != nil {
			return alertActionMsg{err: err}
		}

		return alertActionMsg{summary: fmt.Sprintf(
			"Checked %d products, repaired %d, %d with surplus stock.", res.Checked, len(res.Repaired), len(res.Surpluses),
		)}
	}
}
