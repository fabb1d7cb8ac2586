package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var productCategories = []string{"Curso", "Diagnóstico", "Assessoria", "Horas", "Club"}
var priceModels = []string{"fixed", "hourly", "monthly", "yearly"}

type productsUI struct {
	model  list.Model
	items  []Product
	loaded bool

	form      *modalForm
	editingID int
}

func (m *model) initProducts(s styles) {
	m.products.model = newViewList("Produtos", s)
}

type productsListMsg struct {
	items []Product
	err   error
}

type productSavedMsg struct {
	product Product
	created bool
	err     error
}

func (m *model) loadProductsCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.products.List()
		return productsListMsg{items: items, err: err}
	}
}

func (m *model) refreshProductsList() {
	items := make([]list.Item, 0, len(m.products.items))
	for _, p := range m.products.items {
		items = append(items, listEntry{
			title:   p.Title,
			desc:    fmt.Sprintf("%s · %s · %s", p.Category, formatBRL(p.Price), p.PriceModel),
			payload: p,
		})
	}
	m.products.model.SetItems(items)
}

func (m *model) updateProducts(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productsListMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load products")
			return nil
		}
		m.products.items = msg.items
		m.products.loaded = true
		m.refreshProductsList()
		return nil

	case productSavedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to save product")
			m.setToast("Erro ao salvar produto.", true)
			return nil
		}
		if msg.created {
			m.products.items = append([]Product{msg.product}, m.products.items...)
			m.setToast("Produto criado com sucesso!", false)
		} else {
			for i := range m.products.items {
				if m.products.items[i].ID == msg.product.ID {
					m.products.items[i] = msg.product
					break
				}
			}
			m.setToast("Produto atualizado com sucesso!", false)
		}
		m.refreshProductsList()
		return nil

	case tea.KeyMsg:
		if m.products.model.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.create):
				m.openProductForm(nil)
				return nil
			case key.Matches(msg, m.keys.edit):
				if p, ok := m.selectedProduct(); ok {
					m.openProductForm(&p)
				}
				return nil
			}
		}
	}

	var cmd tea.Cmd
	m.products.model, cmd = m.products.model.Update(msg)
	return cmd
}

func (m *model) selectedProduct() (Product, bool) {
	if entry, ok := m.products.model.SelectedItem().(listEntry); ok {
		if p, ok := entry.payload.(Product); ok {
			return p, true
		}
	}
	return Product{}, false
}

func (m *model) openProductForm(existing *Product) {
	var p Product
	if existing != nil {
		p = *existing
		m.products.editingID = p.ID
	} else {
		m.products.editingID = 0
		p.Category = productCategories[0]
		p.PriceModel = priceModels[0]
	}
	fields := []formField{
		textField("Título", "", p.Title, true),
		numberField("Preço (R$)", "0,00", priceInputValue(p.Price), true),
		selectField("Modelo de Preço", priceModels, p.PriceModel),
		selectField("Categoria", productCategories, p.Category),
		textField("Descrição", "", p.Description, false),
		textField("Formas de Pagamento (separadas por vírgula)", "PIX, Cartão", strings.Join(p.PaymentMethods, ", "), false),
		textField("Processo de Onboarding", "", p.OnboardingProcess, false),
	}
	title := "Novo Produto"
	if existing != nil {
		title = "Editar Produto"
	}
	m.products.form = newModalForm(title, fields)
}

func (m *model) updateProductsForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.products.form.Update(msg)
	if cancelled {
		m.products.form = nil
		return nil
	}
	if !done {
		return cmd
	}
	form := m.products.form
	editingID := m.products.editingID
	m.products.form = nil
	m.products.editingID = 0

	var methods []string
	for _, part := range strings.Split(form.field(5).value(), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			methods = append(methods, trimmed)
		}
	}
	payload := productPayload{
		Title:             form.field(0).value(),
		Price:             form.field(1).floatValue(),
		PriceModel:        form.field(2).value(),
		Category:          form.field(3).value(),
		Description:       form.field(4).value(),
		PaymentMethods:    methods,
		OnboardingProcess: form.field(6).value(),
	}
	svc := m.svc
	return func() tea.Msg {
		if editingID != 0 {
			product, err := svc.products.Update(editingID, payload)
			return productSavedMsg{product: product, err: err}
		}
		product, err := svc.products.Create(payload)
		return productSavedMsg{product: product, created: true, err: err}
	}
}

func (m *model) viewProducts() string {
	if m.products.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			m.products.form.View(m.styles, 56))
	}
	if !m.products.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando produtos…")
	}
	detail := ""
	if p, ok := m.selectedProduct(); ok {
		detail = m.renderProductDetail(p)
	}
	return m.viewListWithDetail(m.products.model.View(), detail)
}

func priceInputValue(price float64) string {
	if price == 0 {
		return ""
	}
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// renderProductDetail builds a Markdown dossier for the product and runs it
// through the terminal renderer.
func (m *model) renderProductDetail(p Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "**%s** · %s · %s\n\n", p.Category, formatBRL(p.Price), p.PriceModel)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	if len(p.PaymentMethods) > 0 {
		fmt.Fprintf(&b, "Pagamento: %s\n\n", strings.Join(p.PaymentMethods, ", "))
	}
	if p.OnboardingProcess != "" {
		fmt.Fprintf(&b, "## Onboarding\n\n%s\n", p.OnboardingProcess)
	}
	if len(p.Workflow) > 0 {
		b.WriteString("\n## Workflow\n\n")
		for _, step := range p.Workflow {
			fmt.Fprintf(&b, "- D+%d: %s (%dh)\n", step.RelativeDays, step.Title, step.DurationHours)
		}
	}
	return renderMarkdown(b.String())
}
