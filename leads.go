package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type leadsUI struct {
	model  list.Model
	items  []Lead
	loaded bool
	form   *modalForm
}

func (m *model) initLeads(s styles) {
	m.leads.model = newViewList("Leads", s)
}

type leadsListMsg struct {
	items []Lead
	err   error
}

type leadCreatedMsg struct {
	lead Lead
	err  error
}

type leadConvertedMsg struct {
	deal Deal
	err  error
}

func (m *model) loadLeadsCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.crm.Leads()
		return leadsListMsg{items: items, err: err}
	}
}

func (m *model) refreshLeadsList() {
	items := make([]list.Item, 0, len(m.leads.items))
	for _, lead := range m.leads.items {
		items = append(items, listEntry{
			title:   lead.Name,
			desc:    fmt.Sprintf("%s · %s · %s · %s", lead.Company, lead.Email, lead.Phone, lead.Status),
			payload: lead,
		})
	}
	m.leads.model.SetItems(items)
}

func (m *model) updateLeads(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case leadsListMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load leads")
			return nil
		}
		m.leads.items = msg.items
		m.leads.loaded = true
		m.refreshLeadsList()
		return nil

	case leadCreatedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to create lead")
			m.setToast("Erro ao criar lead.", true)
			return nil
		}
		m.leads.items = append(m.leads.items, msg.lead)
		m.refreshLeadsList()
		m.setToast("Lead cadastrado com sucesso!", false)
		return nil

	case leadConvertedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to convert lead")
			m.setToast("Erro ao converter lead.", true)
			return nil
		}
		// Hand-off: the board appends the new deal unless it already has it.
		m.board.state.appendDeal(msg.deal)
		m.refreshBoardColumns()
		m.setToast(fmt.Sprintf("Negócio criado em %s: %s", msg.deal.Stage, msg.deal.Title), false)
		m.telemetry.Emit(telemetryEvent{Event: "lead.convert", EntityID: fmt.Sprintf("%d", msg.deal.ID)})
		return nil

	case tea.KeyMsg:
		if m.leads.model.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.create):
				m.openLeadForm()
				return nil
			case key.Matches(msg, m.keys.convert):
				if entry, ok := m.leads.model.SelectedItem().(listEntry); ok {
					if lead, ok := entry.payload.(Lead); ok {
						return m.convertLeadCmd(lead)
					}
				}
				return nil
			}
		}
	}

	var cmd tea.Cmd
	m.leads.model, cmd = m.leads.model.Update(msg)
	return cmd
}

func (m *model) openLeadForm() {
	fields := []formField{
		textField("Nome", "", "", true),
		textField("Empresa", "", "", true),
		textField("E-mail", "", "", false),
		textField("Telefone", "", "", false),
	}
	m.leads.form = newModalForm("Novo Lead", fields)
}

func (m *model) updateLeadsForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.leads.form.Update(msg)
	if cancelled {
		m.leads.form = nil
		return nil
	}
	if !done {
		return cmd
	}
	form := m.leads.form
	m.leads.form = nil

	payload := leadPayload{
		Name:    form.field(0).value(),
		Company: form.field(1).value(),
		Email:   form.field(2).value(),
		Phone:   form.field(3).value(),
		Status:  "Novo",
	}
	svc := m.svc
	return func() tea.Msg {
		lead, err := svc.crm.CreateLead(payload)
		return leadCreatedMsg{lead: lead, err: err}
	}
}

// convertLeadCmd opens a deal for the lead's company in the first pipeline
// stage, with placeholder value and owner to be filled on the board.
func (m *model) convertLeadCmd(lead Lead) tea.Cmd {
	payload := newDealPayload(
		fmt.Sprintf("Oportunidade - %s", lead.Company),
		lead.Company,
		0,
		StageLead,
		"Diagnóstico",
		"A definir",
	)
	svc := m.svc
	return func() tea.Msg {
		deal, err := svc.crm.CreateDeal(payload)
		return leadConvertedMsg{deal: deal, err: err}
	}
}

func (m *model) viewLeads() string {
	if m.leads.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			m.leads.form.View(m.styles, 48))
	}
	if !m.leads.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando leads…")
	}
	detail := ""
	if entry, ok := m.leads.model.SelectedItem().(listEntry); ok {
		if lead, ok := entry.payload.(Lead); ok {
			detail = fmt.Sprintf("%s\n\n%s\n%s\n%s\n\nStatus: %s\nCadastro: %s\n\n%s",
				m.styles.detailTitle.Render(lead.Name),
				lead.Company, lead.Email, lead.Phone,
				lead.Status, formatDateBR(lead.CreatedAt),
				m.styles.formHint.Render("c: converter em negócio"))
		}
	}
	return m.viewListWithDetail(m.leads.model.View(), detail)
}

// formatDateBR shortens an ISO date or timestamp to dd/mm/yyyy for display.
func formatDateBR(value string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return value
}
