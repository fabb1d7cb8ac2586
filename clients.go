package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type clientsUI struct {
	model  list.Model
	items  []ClientProfile
	loaded bool

	form      *modalForm
	editingID int

	confirmDeleteID int
	confirmDeadline time.Time
}

func (m *model) initClients(s styles) {
	m.clients.model = newViewList("Clientes", s)
}

type clientsListMsg struct {
	items []ClientProfile
	err   error
}

type clientSavedMsg struct {
	client  ClientProfile
	created bool
	err     error
}

type clientDeletedMsg struct {
	id  int
	err error
}

func (m *model) loadClientsCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.clients.List()
		return clientsListMsg{items: items, err: err}
	}
}

func (m *model) refreshClientsList() {
	items := make([]list.Item, 0, len(m.clients.items))
	for _, c := range m.clients.items {
		items = append(items, listEntry{
			title:   c.CompanyName,
			desc:    fmt.Sprintf("%s · %s · %s", c.ResponsibleName, c.CNPJ, c.Status),
			payload: c,
		})
	}
	m.clients.model.SetItems(items)
}

func (m *model) updateClients(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clientsListMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load client profiles")
			return nil
		}
		m.clients.items = msg.items
		m.clients.loaded = true
		m.refreshClientsList()
		return nil

	case clientSavedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to save client profile")
			m.setToast("Erro ao salvar cliente.", true)
			return nil
		}
		if msg.created {
			// New entries go to the top of the list.
			m.clients.items = append([]ClientProfile{msg.client}, m.clients.items...)
			m.setToast("Cliente cadastrado com sucesso!", false)
		} else {
			for i := range m.clients.items {
				if m.clients.items[i].ID == msg.client.ID {
					m.clients.items[i] = msg.client
					break
				}
			}
			m.setToast("Cliente atualizado com sucesso!", false)
		}
		m.refreshClientsList()
		return nil

	case clientDeletedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to delete client profile")
			m.setToast("Erro ao excluir cliente.", true)
			return nil
		}
		kept := m.clients.items[:0]
		for _, c := range m.clients.items {
			if c.ID != msg.id {
				kept = append(kept, c)
			}
		}
		m.clients.items = kept
		m.refreshClientsList()
		m.setToast("Cliente excluído.", false)
		return nil

	case tea.KeyMsg:
		if m.clients.model.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.create):
				m.openClientForm(nil)
				return nil
			case key.Matches(msg, m.keys.edit):
				if c, ok := m.selectedClient(); ok {
					m.openClientForm(&c)
				}
				return nil
			case key.Matches(msg, m.keys.remove):
				return m.requestClientDelete()
			}
		}
	}

	var cmd tea.Cmd
	m.clients.model, cmd = m.clients.model.Update(msg)
	return cmd
}

func (m *model) selectedClient() (ClientProfile, bool) {
	if entry, ok := m.clients.model.SelectedItem().(listEntry); ok {
		if c, ok := entry.payload.(ClientProfile); ok {
			return c, true
		}
	}
	return ClientProfile{}, false
}

// requestClientDelete asks for a second press within the confirmation window
// before issuing the delete.
func (m *model) requestClientDelete() tea.Cmd {
	c, ok := m.selectedClient()
	if !ok {
		return nil
	}
	now := time.Now()
	if m.clients.confirmDeleteID == c.ID && now.Before(m.clients.confirmDeadline) {
		m.clients.confirmDeleteID = 0
		svc := m.svc
		id := c.ID
		return func() tea.Msg {
			err := svc.clients.Delete(id)
			return clientDeletedMsg{id: id, err: err}
		}
	}
	m.clients.confirmDeleteID = c.ID
	m.clients.confirmDeadline = now.Add(3 * time.Second)
	m.setToast(fmt.Sprintf("Excluir %s? Pressione d novamente para confirmar.", c.CompanyName), true)
	return nil
}

func (m *model) openClientForm(existing *ClientProfile) {
	var c ClientProfile
	if existing != nil {
		c = *existing
		m.clients.editingID = c.ID
	} else {
		m.clients.editingID = 0
		c.Status = "Ativo"
	}
	fields := []formField{
		textField("Empresa", "", c.CompanyName, true),
		textField("CNPJ", "00.000.000/0000-00", c.CNPJ, true),
		textField("Responsável", "", c.ResponsibleName, true),
		textField("Telefone do Responsável", "", c.ResponsiblePhone, false),
		textField("Telefone do Dono", "", c.OwnerPhone, false),
		textField("Instagram", "@", c.Instagram, false),
		textField("Cidade", "", c.City, false),
		textField("UF", "", c.State, false),
		selectField("Status", []string{"Ativo", "Inativo", "Churn"}, c.Status),
	}
	title := "Novo Cliente"
	if existing != nil {
		title = "Editar Cliente"
	}
	m.clients.form = newModalForm(title, fields)
}

func (m *model) updateClientsForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.clients.form.Update(msg)
	if cancelled {
		m.clients.form = nil
		return nil
	}
	if !done {
		return cmd
	}
	form := m.clients.form
	editingID := m.clients.editingID
	m.clients.form = nil
	m.clients.editingID = 0

	payload := clientProfilePayload{
		CompanyName:      form.field(0).value(),
		CNPJ:             form.field(1).value(),
		ResponsibleName:  form.field(2).value(),
		ResponsiblePhone: form.field(3).value(),
		OwnerPhone:       form.field(4).value(),
		Instagram:        form.field(5).value(),
		City:             form.field(6).value(),
		State:            form.field(7).value(),
		Status:           form.field(8).value(),
	}
	svc := m.svc
	return func() tea.Msg {
		if editingID != 0 {
			client, err := svc.clients.Update(editingID, payload)
			return clientSavedMsg{client: client, err: err}
		}
		client, err := svc.clients.Create(payload)
		return clientSavedMsg{client: client, created: true, err: err}
	}
}

func (m *model) viewClients() string {
	if m.clients.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			m.clients.form.View(m.styles, 52))
	}
	if !m.clients.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando clientes…")
	}
	detail := ""
	if c, ok := m.selectedClient(); ok {
		detail = fmt.Sprintf("%s\n\nCNPJ: %s\nResponsável: %s (%s)\nDono: %s\nInstagram: %s\n%s/%s\n\nFuncionários: %d · Clientes: %d\nStatus: %s · Desde: %s",
			m.styles.detailTitle.Render(c.CompanyName),
			c.CNPJ, c.ResponsibleName, c.ResponsiblePhone,
			c.OwnerPhone, c.Instagram, c.City, c.State,
			c.EmployeeCount, c.ClientCount, c.Status, formatDateBR(c.JoinedAt))
	}
	return m.viewListWithDetail(m.clients.model.View(), detail)
}
