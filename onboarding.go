package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var onboardingStages = []string{"Pendente de Kickoff", "Em andamento", "Concluído"}

type onboardingUI struct {
	model  list.Model
	items  []OnboardingItem
	loaded bool
	form   *modalForm

	// Detail pane state, loaded on demand for one item at a time.
	detailID      int
	detailLoading bool
	tasks         []OnboardingTask
	notes         []OnboardingNote
}

func (m *model) initOnboarding(s styles) {
	m.onboarding.model = newViewList("Onboarding", s)
}

type onboardingListMsg struct {
	items []OnboardingItem
	err   error
}

type onboardingDetailMsg struct {
	id    int
	tasks []OnboardingTask
	notes []OnboardingNote
	err   error
}

type onboardingSavedMsg struct {
	item    OnboardingItem
	created bool
	err     error
}

func (m *model) loadOnboardingCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.onboarding.Items()
		return onboardingListMsg{items: items, err: err}
	}
}

// loadOnboardingDetailCmd fetches tasks and notes for one item. The two
// endpoints are independent, so they run in the same goroutine sequentially
// and the first error wins.
func (m *model) loadOnboardingDetailCmd(id int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		tasks, err := svc.onboarding.Tasks(id)
		if err != nil {
			return onboardingDetailMsg{id: id, err: err}
		}
		notes, err := svc.onboarding.Notes(id)
		return onboardingDetailMsg{id: id, tasks: tasks, notes: notes, err: err}
	}
}

func (m *model) refreshOnboardingList() {
	items := make([]list.Item, 0, len(m.onboarding.items))
	for _, item := range m.onboarding.items {
		items = append(items, listEntry{
			title:   item.ClientName,
			desc:    fmt.Sprintf("%s · %s · %s", item.Product, item.Stage, item.Consultant),
			payload: item,
		})
	}
	m.onboarding.model.SetItems(items)
}

func (m *model) updateOnboarding(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case onboardingListMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load onboarding items")
			return nil
		}
		m.onboarding.items = msg.items
		m.onboarding.loaded = true
		m.refreshOnboardingList()
		return nil

	case onboardingDetailMsg:
		m.checkAuthExpired()
		m.onboarding.detailLoading = false
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load onboarding detail")
			m.setToast("Erro ao carregar detalhes do onboarding.", true)
			return nil
		}
		m.onboarding.detailID = msg.id
		m.onboarding.tasks = msg.tasks
		m.onboarding.notes = msg.notes
		return nil

	case onboardingSavedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to save onboarding item")
			m.setToast("Erro ao salvar onboarding.", true)
			return nil
		}
		if msg.created {
			m.onboarding.items = append([]OnboardingItem{msg.item}, m.onboarding.items...)
			m.setToast("Onboarding iniciado com sucesso!", false)
		} else {
			for i := range m.onboarding.items {
				if m.onboarding.items[i].ID == msg.item.ID {
					m.onboarding.items[i] = msg.item
					break
				}
			}
			m.setToast(fmt.Sprintf("Onboarding movido para %s.", msg.item.Stage), false)
		}
		m.refreshOnboardingList()
		return nil

	case tea.KeyMsg:
		if m.onboarding.model.FilterState() != list.Filtering {
			switch {
			case msg.Type == tea.KeyEnter:
				if item, ok := m.selectedOnboardingItem(); ok {
					m.onboarding.detailLoading = true
					return m.loadOnboardingDetailCmd(item.ID)
				}
				return nil
			case key.Matches(msg, m.keys.create):
				m.openOnboardingForm()
				return nil
			case key.Matches(msg, m.keys.edit):
				return m.advanceOnboardingStage()
			}
		}
	}

	var cmd tea.Cmd
	m.onboarding.model, cmd = m.onboarding.model.Update(msg)
	return cmd
}

func (m *model) selectedOnboardingItem() (OnboardingItem, bool) {
	if entry, ok := m.onboarding.model.SelectedItem().(listEntry); ok {
		if item, ok := entry.payload.(OnboardingItem); ok {
			return item, true
		}
	}
	return OnboardingItem{}, false
}

// advanceOnboardingStage moves the selected item to the next stage. Items
// already concluded stay where they are.
func (m *model) advanceOnboardingStage() tea.Cmd {
	item, ok := m.selectedOnboardingItem()
	if !ok {
		return nil
	}
	next := ""
	for i, stage := range onboardingStages {
		if stage == item.Stage && i+1 < len(onboardingStages) {
			next = onboardingStages[i+1]
			break
		}
	}
	if next == "" {
		m.setToast("Onboarding já está concluído.", false)
		return nil
	}
	svc := m.svc
	id := item.ID
	return func() tea.Msg {
		updated, err := svc.onboarding.UpdateItem(id, onboardingItemPatch{Stage: &next})
		return onboardingSavedMsg{item: updated, err: err}
	}
}

func (m *model) openOnboardingForm() {
	consultants := defaultOwnerNames()
	fields := []formField{
		textField("Cliente", "", "", true),
		selectField("Produto", defaultProductTitles(), defaultProductTitles()[0]),
		textField("Data de Início (AAAA-MM-DD)", time.Now().Format("2006-01-02"), "", true),
		selectField("Consultor", consultants, consultants[0]),
	}
	m.onboarding.form = newModalForm("Novo Onboarding", fields)
}

func (m *model) updateOnboardingForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.onboarding.form.Update(msg)
	if cancelled {
		m.onboarding.form = nil
		return nil
	}
	if !done {
		return cmd
	}
	form := m.onboarding.form
	m.onboarding.form = nil

	item := OnboardingItem{
		ClientName: form.field(0).value(),
		Product:    form.field(1).value(),
		Stage:      onboardingStages[0],
		StartDate:  form.field(2).value(),
		Consultant: form.field(3).value(),
	}
	svc := m.svc
	return func() tea.Msg {
		created, err := svc.onboarding.CreateItem(item)
		return onboardingSavedMsg{item: created, created: true, err: err}
	}
}

func (m *model) viewOnboarding() string {
	if m.onboarding.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			m.onboarding.form.View(m.styles, 48))
	}
	if !m.onboarding.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando onboarding…")
	}
	detail := ""
	if item, ok := m.selectedOnboardingItem(); ok {
		detail = m.renderOnboardingDetail(item)
	}
	return m.viewListWithDetail(m.onboarding.model.View(), detail)
}

func (m *model) renderOnboardingDetail(item OnboardingItem) string {
	var b strings.Builder
	b.WriteString(m.styles.detailTitle.Render(item.ClientName))
	fmt.Fprintf(&b, "\n\n%s\nEtapa: %s\nInício: %s\nConsultor: %s\n",
		item.Product, item.Stage, formatDateBR(item.StartDate), item.Consultant)

	if m.onboarding.detailLoading {
		b.WriteString("\n" + m.spin.View() + " carregando tarefas e notas…\n")
		return b.String()
	}
	if m.onboarding.detailID != item.ID {
		b.WriteString("\n" + m.styles.formHint.Render("enter: carregar tarefas e notas · e: avançar etapa"))
		return b.String()
	}

	b.WriteString("\nTarefas:\n")
	if len(m.onboarding.tasks) == 0 {
		b.WriteString("  (nenhuma)\n")
	}
	for _, t := range m.onboarding.tasks {
		mark := "☐"
		if t.Completed {
			mark = "☑"
		}
		fmt.Fprintf(&b, "  %s %s", mark, t.Title)
		if t.DueDate != "" {
			fmt.Fprintf(&b, " (até %s)", formatDateBR(t.DueDate))
		}
		b.WriteString("\n")
	}

	if len(m.onboarding.notes) > 0 {
		var md strings.Builder
		md.WriteString("## Notas\n\n")
		for _, n := range m.onboarding.notes {
			fmt.Fprintf(&md, "**%s** (%s)\n\n%s\n\n", n.User, formatDateBR(n.CreatedAt), n.Text)
		}
		b.WriteString(renderMarkdown(md.String()))
	}
	return b.String()
}
