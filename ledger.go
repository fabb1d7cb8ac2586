package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ledgerUI struct {
	model  list.Model
	items  []LedgerEntry
	loaded bool
	form   *modalForm

	confirmDeleteID int
	confirmDeadline time.Time
}

func (m *model) initLedger(s styles) {
	m.ledger.model = newViewList("Ledger de Horas", s)
}

type ledgerListMsg struct {
	items []LedgerEntry
	err   error
}

type ledgerSavedMsg struct {
	entry LedgerEntry
	err   error
}

type ledgerDeletedMsg struct {
	id  int
	err error
}

func (m *model) loadLedgerCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.financial.Ledger()
		return ledgerListMsg{items: items, err: err}
	}
}

func (m *model) refreshLedgerList() {
	items := make([]list.Item, 0, len(m.ledger.items))
	for _, e := range m.ledger.items {
		sign := "+"
		if e.Type == "debit" {
			sign = "-"
		}
		title := fmt.Sprintf("%s%s · %s", sign, formatBRL(e.Amount), e.Description)
		desc := fmt.Sprintf("%s · %s", e.Consultant, formatDateBR(e.Date))
		if e.ClientName != "" {
			desc += " · " + e.ClientName
		}
		items = append(items, listEntry{title: title, desc: desc, payload: e})
	}
	m.ledger.model.SetItems(items)
}

func (m *model) updateLedger(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ledgerListMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load ledger")
			return nil
		}
		m.ledger.items = msg.items
		m.ledger.loaded = true
		m.refreshLedgerList()
		return nil

	case ledgerSavedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to add ledger entry")
			m.setToast("Erro ao lançar no ledger.", true)
			return nil
		}
		m.ledger.items = append([]LedgerEntry{msg.entry}, m.ledger.items...)
		m.refreshLedgerList()
		m.setToast("Lançamento registrado!", false)
		return nil

	case ledgerDeletedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to delete ledger entry")
			m.setToast("Erro ao excluir lançamento.", true)
			return nil
		}
		kept := m.ledger.items[:0]
		for _, e := range m.ledger.items {
			if e.ID != msg.id {
				kept = append(kept, e)
			}
		}
		m.ledger.items = kept
		m.refreshLedgerList()
		m.setToast("Lançamento excluído.", false)
		return nil

	case tea.KeyMsg:
		if m.ledger.model.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.create):
				m.openLedgerForm()
				return nil
			case key.Matches(msg, m.keys.remove):
				return m.requestLedgerDelete()
			}
		}
	}

	var cmd tea.Cmd
	m.ledger.model, cmd = m.ledger.model.Update(msg)
	return cmd
}

func (m *model) requestLedgerDelete() tea.Cmd {
	entry, ok := m.selectedLedgerEntry()
	if !ok {
		return nil
	}
	now := time.Now()
	if m.ledger.confirmDeleteID == entry.ID && now.Before(m.ledger.confirmDeadline) {
		m.ledger.confirmDeleteID = 0
		svc := m.svc
		id := entry.ID
		return func() tea.Msg {
			err := svc.financial.DeleteEntry(id)
			return ledgerDeletedMsg{id: id, err: err}
		}
	}
	m.ledger.confirmDeleteID = entry.ID
	m.ledger.confirmDeadline = now.Add(3 * time.Second)
	m.setToast("Excluir lançamento? Pressione d novamente para confirmar.", true)
	return nil
}

func (m *model) selectedLedgerEntry() (LedgerEntry, bool) {
	if entry, ok := m.ledger.model.SelectedItem().(listEntry); ok {
		if e, ok := entry.payload.(LedgerEntry); ok {
			return e, true
		}
	}
	return LedgerEntry{}, false
}

func (m *model) openLedgerForm() {
	fields := []formField{
		selectField("Tipo", []string{"credit", "debit"}, "credit"),
		numberField("Valor (R$)", "0,00", "", true),
		textField("Descrição", "", "", true),
		selectField("Consultor", defaultOwnerNames(), defaultOwnerNames()[0]),
		textField("Cliente (opcional)", "", "", false),
	}
	m.ledger.form = newModalForm("Novo Lançamento", fields)
}

func (m *model) updateLedgerForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.ledger.form.Update(msg)
	if cancelled {
		m.ledger.form = nil
		return nil
	}
	if !done {
		return cmd
	}
	form := m.ledger.form
	m.ledger.form = nil

	payload := newLedgerEntryPayload(
		form.field(0).value(),
		form.field(1).floatValue(),
		form.field(2).value(),
		form.field(3).value(),
		form.field(4).value(),
	)
	svc := m.svc
	return func() tea.Msg {
		entry, err := svc.financial.AddEntry(payload)
		return ledgerSavedMsg{entry: entry, err: err}
	}
}

func (m *model) viewLedger() string {
	if m.ledger.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			m.ledger.form.View(m.styles, 48))
	}
	if !m.ledger.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando ledger…")
	}

	var credit, debit float64
	for _, e := range m.ledger.items {
		switch e.Type {
		case "debit":
			debit += e.Amount
		default:
			credit += e.Amount
		}
	}
	summary := fmt.Sprintf("Créditos: %s\nDébitos: %s\nSaldo: %s",
		formatBRL(credit), formatBRL(debit), formatBRL(credit-debit))
	return m.viewListWithDetail(m.ledger.model.View(), summary)
}
