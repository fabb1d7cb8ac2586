package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// newViewList is the list used by the dossier screens: filtering on, so "/"
// gives the client-side substring search.
func newViewList(title string, s styles) list.Model {
	m := newEntryList(title, s, 48, 20)
	m.SetFilteringEnabled(true)
	m.SetShowStatusBar(true)
	return m
}

func (m *model) listFilterActive() bool {
	var l *list.Model
	switch m.active {
	case screenLeads:
		l = &m.leads.model
	case screenClients:
		l = &m.clients.model
	case screenProducts:
		l = &m.products.model
	case screenLedger:
		l = &m.ledger.model
	case screenOnboarding:
		l = &m.onboarding.model
	}
	return l != nil && l.FilterState() == list.Filtering
}

func (m *model) resizeLists(width, height int) {
	listWidth := width / 2
	if listWidth < 40 {
		listWidth = width - 4
	}
	m.leads.model.SetSize(listWidth, height)
	m.clients.model.SetSize(listWidth, height)
	m.products.model.SetSize(listWidth, height)
	m.ledger.model.SetSize(listWidth, height)
	m.onboarding.model.SetSize(listWidth, height)
}

// viewListWithDetail renders a list beside its detail pane.
func (m *model) viewListWithDetail(listView, detail string) string {
	if detail == "" {
		return listView
	}
	pane := m.styles.panel.Width(m.width - lipgloss.Width(listView) - 4).Render(detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, listView, pane)
}
