package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/granja/internal/importer"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePreviewing
	importStatePreview
	importStateAssign
	importStateConfirm
	importStateResult
)

type assignValues struct {
	product uuid.UUID
}

type confirmValues struct {
	supplier   uuid.UUID
	invoiceRef string
}

// ImportModel loads a supplier delivery note, lets the user resolve rows
// whose product name did not match the catalogue, and records the purchase.
type ImportModel struct {
	svc      *inventory.Service
	importer *importer.Service

	state      importState
	filePicker filepicker.Model

	preview   *importer.Preview
	lines     list.Model
	overrides map[int]uuid.UUID
	products  []*inventory.Product
	suppliers []*inventory.Supplier

	form    *huh.Form
	assign  *assignValues
	confirm *confirmValues

	status string
	err    error
}

func NewImportModel(svc *inventory.Service, imp *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		svc:        svc,
		importer:   imp,
		filePicker: fp,
		overrides:  make(map[int]uuid.UUID),
	}
}

func (m ImportModel) Title() string { return "Import Delivery Note" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "p: assign product | Enter: confirm | Esc: cancel"
	case importStateAssign, importStateConfirm:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStatePreview:
			return m.updatePreview(msg)
		case importStateAssign, importStateConfirm:
			return m.updateForm(msg)
		}

	case previewResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.preview = msg.preview
		m.products = msg.products
		m.suppliers = msg.suppliers
		m.overrides = make(map[int]uuid.UUID)
		m.state = importStatePreview
		m.lines = m.newLineList()

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Purchase %s recorded: %d lots, total %s.",
			msg.purchase.Number, len(msg.purchase.Lines), FormatMoney(msg.purchase.Total))

		return m, nil
	}

	switch m.state {
	case importStateAssign, importStateConfirm:
		return m.updateForm(msg)
	case importStateFilePick:
	default:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStatePreviewing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateAssign, importStateConfirm:
		m.state = importStatePreview
		m.form = nil

		return m, nil
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.preview = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		if len(m.products) == 0 {
			return m, nil
		}

		m.assign = &assignValues{product: m.products[0].ID}
		m.form = m.assignForm()
		m.state = importStateAssign

		return m, m.form.Init()
	case "enter":
		if m.unresolved() > 0 {
			m.status = fmt.Sprintf("%d rows still need a product.", m.unresolved())
			return m, nil
		}

		if len(m.suppliers) == 0 {
			m.status = "No suppliers registered, create one through the API first."
			return m, nil
		}

		m.confirm = &confirmValues{supplier: m.suppliers[0].ID}
		m.form = m.confirmForm()
		m.state = importStateConfirm

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.lines, cmd = m.lines.Update(msg)

	return m, cmd
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil

	if m.state == importStateAssign {
		if item, ok := m.lines.SelectedItem().(lineItem); ok {
			m.overrides[item.line.Line] = m.assign.product
		}

		m.state = importStatePreview
		m.status = ""

		return m, nil
	}

	m.state = importStatePreviewing
	m.status = "Recording purchase..."

	return m, m.confirmCmd()
}

func (m ImportModel) unresolved() int {
	n := 0

	for _, l := range m.preview.Lines {
		if _, ok := m.overrides[l.Line]; l.ProductID == nil && !ok {
			n++
		}
	}

	return n
}

func (m ImportModel) assignForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], 0, len(m.products))
	for _, p := range m.products {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}

	title := "Product"
	if item, ok := m.lines.SelectedItem().(lineItem); ok {
		title = fmt.Sprintf("Product for %q", item.line.Product)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title(title).
				Options(options...).
				Value(&m.assign.product),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) confirmForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], 0, len(m.suppliers))
	for _, s := range m.suppliers {
		options = append(options, huh.NewOption(s.Name, s.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Key("supplier").
				Title("Supplier").
				Options(options...).
				Value(&m.confirm.supplier),

			huh.NewInput().
				Key("invoice_ref").
				Title("Invoice reference").
				Value(&m.confirm.invoiceRef),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) newLineList() list.Model {
	items := make([]list.Item, len(m.preview.Lines))
	for i, l := range m.preview.Lines {
		items[i] = lineItem{line: l}
	}

	l := list.New(items, lineDelegate{overrides: m.overrides, names: m.productNames()}, 90, 20)
	l.Title = fmt.Sprintf("Delivery note: %d rows, total %s", len(items), FormatMoney(m.preview.Total))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

func (m ImportModel) productNames() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(m.products))
	for _, p := range m.products {
		names[p.ID] = p.Name
	}

	return names
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return padded.Render("Select a delivery note (csv or xlsx):\n\n" + m.filePicker.View())
	case importStatePreviewing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateAssign, importStateConfirm:
		return lipgloss.JoinHorizontal(lipgloss.Top, m.viewPreview(), padded.Render(m.form.View()))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	content := m.lines.View()

	if n := m.unresolved(); n > 0 {
		content += "\n" + errorStyle.Render(fmt.Sprintf("%d unresolved", n))
	}

	if m.status != "" {
		content += "\n" + faintStyle.Render(m.status)
	}

	return padded.Render(content + "\n\n" + m.ShortHelp())
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// formatFor picks the parser from the file extension.
func formatFor(path string) importer.Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return importer.FormatSupplierXLSX
	}

	return importer.FormatSupplierCSV
}

// Messages

type previewResultMsg struct {
	preview   *importer.Preview
	products  []*inventory.Product
	suppliers []*inventory.Supplier
	err       error
}

type importResultMsg struct {
	purchase *inventory.Purchase
	err      error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		preview, err := m.importer.Preview(ctx, formatFor(path), f)
		if err != nil {
			return previewResultMsg{err: err}
		}

		products, err := m.svc.ListProducts(ctx)
		if err != nil {
			return previewResultMsg{err: err}
		}

		suppliers, err := m.svc.ListSuppliers(ctx)

		return previewResultMsg{preview: preview, products: products, suppliers: suppliers, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	preview := m.preview
	params := importer.ConfirmParams{
		SupplierID: m.confirm.supplier,
		InvoiceRef: strings.TrimSpace(m.confirm.invoiceRef),
		Overrides:  m.overrides,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		purchase, err := m.importer.Confirm(ctx, preview, params)

		return importResultMsg{purchase: purchase, err: err}
	}
}

// Preview list item

type lineItem struct {
	line importer.PreviewLine
}

func (i lineItem) Title() string       { return i.line.Product }
func (i lineItem) Description() string { return "" }
func (i lineItem) FilterValue() string { return i.line.Product }

// Preview list delegate

type lineDelegate struct {
	overrides map[int]uuid.UUID
	names     map[uuid.UUID]string
}

func (d lineDelegate) Height() int                             { return 2 }
func (d lineDelegate) Spacing() int                            { return 0 }
func (d lineDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d lineDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(lineItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	l := item.line

	expiry := "-"
	if l.ExpiresAt != nil {
		expiry = FormatDate(*l.ExpiresAt)
	}

	line1 := fmt.Sprintf("%s%3d  %-24s %8s x %8s  vence %s",
		cursor, l.Line, l.Product, FormatQty(l.Quantity), FormatMoney(l.UnitCost), expiry)

	var line2 string

	switch id, overridden := d.overrides[l.Line]; {
	case overridden:
		line2 = activeStyle("-> " + d.names[id])
	case l.ProductID != nil:
		line2 = successStyle.Render("-> " + l.ProductName)
	case len(l.Candidates) > 0:
		line2 = errorStyle.Render("ambiguous: " + strings.Join(l.Candidates, ", "))
	default:
		line2 = errorStyle.Render("no matching product")
	}

	fmt.Fprintf(w, "%s\n       %s", line1, line2)
}
