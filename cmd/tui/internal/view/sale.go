package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

type saleState int

const (
	saleStateLoading saleState = iota
	saleStateCart
	saleStateLine
	saleStateCheckout
	saleStateResult
)

type lineValues struct {
	product  *inventory.Product
	quantity string
	price    string
}

type checkoutValues struct {
	customer uuid.UUID
	method   inventory.PaymentMethod
}

type cartLine struct {
	product  *inventory.Product
	quantity decimal.Decimal
	price    decimal.Decimal
}

// SaleModel builds a cart one line at a time and records it as one sale.
type SaleModel struct {
	svc *inventory.Service

	state     saleState
	products  []*inventory.Product
	customers []*inventory.Customer
	cart      []cartLine

	form     *huh.Form
	line     *lineValues
	checkout *checkoutValues

	sale *inventory.Sale
	err  error
}

func NewSaleModel(svc *inventory.Service) SaleModel {
	return SaleModel{svc: svc}
}

func (m SaleModel) Title() string { return "Record Sale" }

func (m SaleModel) ShortHelp() string {
	switch m.state {
	case saleStateCart:
		return "a: add line | d: drop last line | Enter: checkout | Esc: back"
	case saleStateLine, saleStateCheckout:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back"
}

func (m SaleModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SaleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSaleDataMsg:
		if msg.err != nil {
			m.state = saleStateResult
			m.err = msg.err

			return m, nil
		}

		m.products = msg.products
		m.customers = msg.customers
		m.state = saleStateCart

		return m, nil

	case saleSavedMsg:
		m.state = saleStateResult
		m.sale = msg.sale
		m.err = msg.err

		if msg.err == nil {
			m.cart = nil
		}

		return m, nil
	}

	switch m.state {
	case saleStateCart:
		return m.updateCart(msg)
	case saleStateLine:
		return m.updateLine(msg)
	case saleStateCheckout:
		return m.updateCheckout(msg)
	case saleStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = saleStateCart
			m.sale = nil
			m.err = nil
		}
	default:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m SaleModel) updateCart(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "a":
		if len(m.products) == 0 {
			return m, nil
		}

		m.line = &lineValues{}
		m.form = m.lineForm()
		m.state = saleStateLine

		return m, m.form.Init()
	case "d":
		if len(m.cart) > 0 {
			m.cart = m.cart[:len(m.cart)-1]
		}
	case "enter":
		if len(m.cart) == 0 || len(m.customers) == 0 {
			return m, nil
		}

		m.checkout = &checkoutValues{customer: m.customers[0].ID, method: inventory.PaymentCash}
		m.form = m.checkoutForm()
		m.state = saleStateCheckout

		return m, m.form.Init()
	}

	return m, nil
}

func (m SaleModel) lineForm() *huh.Form {
	options := make([]huh.Option[*inventory.Product], 0, len(m.products))
	for _, p := range m.products {
		label := fmt.Sprintf("%s (%s %s)", p.Name, FormatQty(p.Stock), p.Unit)
		options = append(options, huh.NewOption(label, p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[*inventory.Product]().
				Key("product").
				Title("Product").
				Options(options...).
				Value(&m.line.product),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.line.quantity).
				Validate(validPositive),

			huh.NewInput().
				Key("price").
				Title("Unit price").
				Description("Leave empty for the catalogue price").
				Value(&m.line.price).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					return validPositive(s)
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SaleModel) checkoutForm() *huh.Form {
	customers := make([]huh.Option[uuid.UUID], 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Key("customer").
				Title("Customer").
				Options(customers...).
				Value(&m.checkout.customer),

			huh.NewSelect[inventory.PaymentMethod]().
				Key("method").
				Title("Payment").
				Options(
					huh.NewOption("Cash", inventory.PaymentCash),
					huh.NewOption("Card", inventory.PaymentCard),
					huh.NewOption("Transfer", inventory.PaymentTransfer),
					huh.NewOption("Mobile", inventory.PaymentMobile),
				).
				Value(&m.checkout.method),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SaleModel) updateLine(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.stepForm(msg)
	if !done {
		return m, cmd
	}

	line, err := m.line.toCartLine()
	if err != nil {
		m.state = saleStateResult
		m.err = err

		return m, nil
	}

	m.cart = append(m.cart, line)
	m.state = saleStateCart
	m.form = nil

	return m, nil
}

func (m SaleModel) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.stepForm(msg)
	if !done {
		return m, cmd
	}

	m.form = nil

	return m, m.saveCmd()
}

// stepForm forwards msg to the active form. Esc abandons it and returns to
// the cart.
func (m *SaleModel) stepForm(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = saleStateCart
		m.form = nil

		return false, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	return m.form.State == huh.StateCompleted, cmd
}

func (v *lineValues) toCartLine() (cartLine, error) {
	if v.product == nil {
		return cartLine{}, fmt.Errorf("no product selected")
	}

	qty, err := ParsePositive(v.quantity)
	if err != nil {
		return cartLine{}, fmt.Errorf("quantity: %w", err)
	}

	price := v.product.SalePrice
	if strings.TrimSpace(v.price) != "" {
		if price, err = ParsePositive(v.price); err != nil {
			return cartLine{}, fmt.Errorf("price: %w", err)
		}
	}

	return cartLine{product: v.product, quantity: qty, price: price}, nil
}

func (m SaleModel) total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.cart {
		total = total.Add(l.quantity.Mul(l.price))
	}

	return total
}

func (m SaleModel) View() string {
	switch m.state {
	case saleStateLoading:
		return padded.Render("Loading catalogue...")
	case saleStateLine, saleStateCheckout:
		return lipgloss.JoinHorizontal(lipgloss.Top, m.viewCart(), padded.Render(m.form.View()))
	case saleStateResult:
		return m.viewResult()
	}

	return m.viewCart()
}

func (m SaleModel) viewCart() string {
	var b strings.Builder

	b.WriteString("Cart\n\n")

	if len(m.cart) == 0 {
		b.WriteString(faintStyle.Render("empty") + "\n")
	}

	for _, l := range m.cart {
		fmt.Fprintf(&b, "%-20s %8s x %8s = %10s\n",
			l.product.Name, FormatQty(l.quantity), FormatMoney(l.price), FormatMoney(l.quantity.Mul(l.price)))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", activeStyle(FormatMoney(m.total())))

	if len(m.customers) == 0 {
		b.WriteString(errorStyle.Render("\nNo customers registered, create one through the API first.") + "\n")
	}

	b.WriteString("\n" + m.ShortHelp())

	return padded.Render(b.String())
}

func (m SaleModel) viewResult() string {
	if m.err != nil {
		return padded.Render(errorStyle.Render(saleError(m.err)) + "\n\n(Esc to go back)")
	}

	return padded.Render(successStyle.Render(fmt.Sprintf(
		"Sale %s recorded: %s, profit %s", m.sale.Number, FormatMoney(m.sale.Total), FormatMoney(m.sale.Profit),
	)) + "\n\n(Esc to go back)")
}

func saleError(err error) string {
	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		return fmt.Sprintf("Not enough %s: %s available, %s requested",
			stockErr.ProductName, FormatQty(stockErr.Available), FormatQty(stockErr.Requested))
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type loadSaleDataMsg struct {
	products  []*inventory.Product
	customers []*inventory.Customer
	err       error
}

func (m SaleModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.svc.ListProducts(ctx)
		if err != nil {
			return loadSaleDataMsg{err: err}
		}

		customers, err := m.svc.ListCustomers(ctx)

		return loadSaleDataMsg{products: products, customers: customers, err: err}
	}
}

type saleSavedMsg struct {
	sale *inventory.Sale
	err  error
}

func (m SaleModel) saveCmd() tea.Cmd {
	params := inventory.RecordSaleParams{
		CustomerID: m.checkout.customer,
		Payment:    inventory.Payment{Method: m.checkout.method},
	}

	for _, l := range m.cart {
		params.Lines = append(params.Lines, inventory.SaleLineParams{
			ProductID: l.product.ID,
			Quantity:  l.quantity,
			UnitPrice: l.price,
		})
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sale, err := m.svc.RecordSale(ctx, params)

		return saleSavedMsg{sale: sale, err: err}
	}
}
