package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/granja/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/granja/internal/app"
	"github.com/MrJamesThe3rd/granja/internal/config"
)

type model struct {
	app *app.App

	currentView View

	stockView  view.StockModel
	saleView   view.SaleModel
	alertView  view.AlertModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewStock  View = 1
	ViewSale   View = 2
	ViewAlerts View = 3
	ViewImport View = 4
	ViewExport View = 5
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewStock
				m.stockView = view.NewStockModel(m.app.Inventory)

				return m, m.stockView.Init()
			case "2":
				m.currentView = ViewSale
				m.saleView = view.NewSaleModel(m.app.Inventory)

				return m, m.saleView.Init()
			case "3":
				m.currentView = ViewAlerts
				m.alertView = view.NewAlertModel(m.app.Inventory)

				return m, m.alertView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Inventory, m.app.Importer)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Reports)

				return m, m.exportView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewStock:
		var newModel tea.Model
		newModel, cmd = m.stockView.Update(msg)
		m.stockView = newModel.(view.StockModel)
	case ViewSale:
		var newModel tea.Model
		newModel, cmd = m.saleView.Update(msg)
		m.saleView = newModel.(view.SaleModel)
	case ViewAlerts:
		var newModel tea.Model
		newModel, cmd = m.alertView.Update(msg)
		m.alertView = newModel.(view.AlertModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Granja\n\n" +
				"1. Stock\n" +
				"2. Record Sale\n" +
				"3. Alerts\n" +
				"4. Import Delivery Note\n" +
				"5. Export Report\n\n" +
				"q. Quit",
		)
	case ViewStock:
		return m.stockView.View()
	case ViewSale:
		return m.saleView.View()
	case ViewAlerts:
		return m.alertView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
