package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type stockState int

const (
	stockStateBrowse stockState = iota
	stockStateWaste
)

var stockFilters = []*inventory.Status{
	nil,
	new(inventory.StatusActive),
	new(inventory.StatusNearExpiry),
	new(inventory.StatusExpired),
}

// wasteValues is shared with the huh form, so it lives behind a pointer
// that survives the model being copied.
type wasteValues struct {
	quantity string
	reason   string
}

type StockModel struct {
	svc *inventory.Service

	state stockState
	table table.Model
	lots  []*inventory.Lot
	names map[uuid.UUID]string
	form  *huh.Form
	waste *wasteValues

	filterIdx int
	loading   bool
	err       error
	status    string
}

func NewStockModel(svc *inventory.Service) StockModel {
	columns := []table.Column{
		{Title: "Producto", Width: 22},
		{Title: "Lote", Width: 16},
		{Title: "Vence", Width: 10},
		{Title: "Días", Width: 5},
		{Title: "Estado", Width: 11},
		{Title: "Restante", Width: 9},
		{Title: "Costo", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return StockModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m StockModel) Title() string { return "Stock" }

func (m StockModel) ShortHelp() string {
	if m.state == stockStateWaste {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | w: record waste | s: status filter | r: refresh"
}

func (m StockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStockMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.lots = msg.lots
		m.names = msg.names
		m.refreshTable()

		return m, nil

	case wasteSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error recording waste: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Waste recorded, cost %s", FormatMoney(msg.waste.Cost))
		}

		m.state = stockStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case stockStateBrowse:
		return m.updateBrowse(msg)
	case stockStateWaste:
		return m.updateWaste(msg)
	}

	return m, nil
}

func (m StockModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "w":
			return m.enterWasteMode()
		case "s":
			m.filterIdx = (m.filterIdx + 1) % len(stockFilters)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StockModel) selected() *inventory.Lot {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lots) {
		return nil
	}

	return m.lots[idx]
}

func (m StockModel) enterWasteMode() (tea.Model, tea.Cmd) {
	lot := m.selected()
	if lot == nil {
		return m, nil
	}

	m.waste = &wasteValues{}

	if lot.Status == inventory.StatusExpired {
		m.waste.quantity = FormatQty(lot.Remaining)
		m.waste.reason = "Vencido"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.waste.quantity).
				Validate(validPositive),

			huh.NewInput().
				Key("reason").
				Title("Reason").
				Value(&m.waste.reason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("reason cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = stockStateWaste
	m.table.Blur()

	return m, m.form.Init()
}

func (m StockModel) updateWaste(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stockStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveWasteCmd()
}

func (m StockModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading lots...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := "All"
	if f := stockFilters[m.filterIdx]; f != nil {
		filter = statusLabels[*f]
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %d lots", activeStyle(filter), len(m.lots))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if lot := m.selected(); lot != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			fmt.Sprintf("%s  %s  received %s", lot.Number, statusText(lot.Status), FormatDate(lot.ReceivedAt)),
		)
	}

	if m.state == stockStateWaste && m.form != nil {
		lot := m.selected()

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Record Waste\n\n%s %s (%s left)\n\n%s",
				m.names[lot.ProductID], lot.Number, FormatQty(lot.Remaining), m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return padded.Render(content)
}

func (m *StockModel) refreshTable() {
	now := time.Now()
	rows := make([]table.Row, 0, len(m.lots))

	for _, l := range m.lots {
		rows = append(rows, table.Row{
			m.names[l.ProductID],
			l.Number,
			FormatDate(l.ExpiresAt),
			fmt.Sprint(inventory.DaysRemaining(l.ExpiresAt, now)),
			statusLabels[l.Status],
			FormatQty(l.Remaining),
			FormatMoney(l.UnitCost),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadStockMsg struct {
	lots  []*inventory.Lot
	names map[uuid.UUID]string
	err   error
}

func (m StockModel) loadCmd() tea.Cmd {
	filter := inventory.LotFilter{Status: stockFilters[m.filterIdx], InStockOnly: true}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.svc.ListProducts(ctx)
		if err != nil {
			return loadStockMsg{err: err}
		}

		names := make(map[uuid.UUID]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}

		lots, err := m.svc.ListLots(ctx, filter)

		return loadStockMsg{lots: lots, names: names, err: err}
	}
}

type wasteSavedMsg struct {
	waste *inventory.Waste
	err   error
}

func (m StockModel) saveWasteCmd() tea.Cmd {
	lot := m.selected()
	if lot == nil {
		return nil
	}

	vals := *m.waste

	return func() tea.Msg {
		qty, err := ParsePositive(vals.quantity)
		if err != nil {
			return wasteSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		w, err := m.svc.RecordWaste(ctx, inventory.RecordWasteParams{
			ProductID: lot.ProductID,
			LotID:     &lot.ID,
			Quantity:  qty,
			Reason:    strings.TrimSpace(vals.reason),
		})

		return wasteSavedMsg{waste: w, err: err}
	}
}
