package main

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardFormKind int

const (
	boardFormNone boardFormKind = iota
	boardFormDeal
	boardFormActivity
)

type boardUI struct {
	state   *boardState
	columns []*stageColumn
	focus   int

	form          *modalForm
	formKind      boardFormKind
	formStage     string
	formDealID    int
	formDealTitle string
}

func (m *model) initBoard(s styles) {
	m.board.state = newBoardState()
	m.board.columns = make([]*stageColumn, 0, len(dealStages))
	for _, stage := range dealStages {
		m.board.columns = append(m.board.columns, newStageColumn(stage, s, 24))
	}
}

func (m *model) resizeBoard(width, height int) {
	colWidth := width/len(dealStages) - 2
	if colWidth < 18 {
		colWidth = 18
	}
	for _, col := range m.board.columns {
		col.SetSize(colWidth, height)
	}
}

type boardDataMsg struct {
	gen        int
	leads      []Lead
	deals      []Deal
	activities []Activity
	err        error
}

type dealMovedMsg struct {
	id    int
	stage string
	deal  Deal
	err   error
}

type dealCreatedMsg struct {
	deal Deal
	err  error
}

type activityCreatedMsg struct {
	activity Activity
	err      error
}

// loadBoardCmd fetches leads, deals and activities concurrently; the board
// only renders data once all three arrive.
func (m *model) loadBoardCmd() tea.Cmd {
	m.board.state.gen++
	gen := m.board.state.gen
	m.busy = true
	m.busyLabel = "carregando pipeline…"
	svc := m.svc
	return func() tea.Msg {
		var (
			wg         sync.WaitGroup
			leads      []Lead
			deals      []Deal
			activities []Activity
			errs       [3]error
		)
		wg.Add(3)
		go func() { defer wg.Done(); leads, errs[0] = svc.crm.Leads() }()
		go func() { defer wg.Done(); deals, errs[1] = svc.crm.Deals() }()
		go func() { defer wg.Done(); activities, errs[2] = svc.crm.Activities() }()
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return boardDataMsg{gen: gen, err: err}
			}
		}
		return boardDataMsg{gen: gen, leads: leads, deals: deals, activities: activities}
	}
}

func (m *model) moveDealCmd(id int, stage string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		deal, err := svc.crm.UpdateDeal(id, stagePatch(stage))
		return dealMovedMsg{id: id, stage: stage, deal: deal, err: err}
	}
}

func (m *model) createDealCmd(payload dealPayload) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		deal, err := svc.crm.CreateDeal(payload)
		return dealCreatedMsg{deal: deal, err: err}
	}
}

func (m *model) createActivityCmd(payload activityPayload) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		activity, err := svc.crm.CreateActivity(payload)
		return activityCreatedMsg{activity: activity, err: err}
	}
}

func (m *model) updateBoard(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case boardDataMsg:
		m.busy = false
		m.checkAuthExpired()
		if msg.gen != m.board.state.gen {
			return nil
		}
		if msg.err != nil {
			m.board.state.setLoadError(msg.err)
			m.log.WithError(msg.err).Error("failed to load CRM data")
			return nil
		}
		m.board.state.setData(msg.leads, msg.deals, msg.activities)
		m.refreshBoardColumns()
		return nil

	case dealMovedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.board.state.failMove(msg.id)
			m.log.WithError(msg.err).WithField("deal", msg.id).Error("failed to update deal stage")
			// No targeted rollback: discard local state and resync.
			return m.loadBoardCmd()
		}
		m.board.state.confirmMove(msg.id, msg.deal)
		m.refreshBoardColumns()
		m.telemetry.Emit(telemetryEvent{
			Event:    "deal.move",
			Screen:   screenNames[screenBoard],
			EntityID: fmt.Sprintf("%d", msg.id),
			ExtraJSON: map[string]string{
				"stage": msg.stage,
			},
		})
		return nil

	case dealCreatedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to create deal")
			m.setToast("Erro ao criar negócio.", true)
			return nil
		}
		m.board.state.appendDeal(msg.deal)
		m.refreshBoardColumns()
		m.setToast("Negócio criado com sucesso!", false)
		m.telemetry.Emit(telemetryEvent{Event: "deal.create", EntityID: fmt.Sprintf("%d", msg.deal.ID)})
		return nil

	case activityCreatedMsg:
		m.checkAuthExpired()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to create activity")
			m.setToast("Erro ao agendar atividade.", true)
			return nil
		}
		m.board.state.appendActivity(msg.activity)
		m.setToast("Atividade agendada com sucesso!", false)
		m.telemetry.Emit(telemetryEvent{Event: "activity.create", EntityID: fmt.Sprintf("%d", msg.activity.ID)})
		return nil

	case tea.KeyMsg:
		return m.handleBoardKey(msg)
	}

	if m.board.focus >= 0 && m.board.focus < len(m.board.columns) {
		return m.board.columns[m.board.focus].Update(msg)
	}
	return nil
}

func (m *model) handleBoardKey(msg tea.KeyMsg) tea.Cmd {
	board := &m.board
	switch msg.String() {
	case "h", "left":
		if board.focus > 0 {
			board.focus--
		}
		return nil
	case "l", "right":
		if board.focus < len(board.columns)-1 {
			board.focus++
		}
		return nil
	case "esc":
		if board.state.grabbedDealID != 0 {
			board.state.clearGrab()
			m.refreshBoardColumns()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.grab), key.Matches(msg, m.keys.drop):
		return m.handleGrabOrDrop(msg)
	case key.Matches(msg, m.keys.newDeal):
		m.openDealForm(dealStages[board.focus])
		return nil
	case key.Matches(msg, m.keys.meeting):
		if deal, ok := board.columns[board.focus].SelectedDeal(); ok {
			m.openActivityForm(deal, ActivityMeeting)
		}
		return nil
	case key.Matches(msg, m.keys.activity):
		if deal, ok := board.columns[board.focus].SelectedDeal(); ok {
			m.openActivityForm(deal, ActivityCall)
		}
		return nil
	case key.Matches(msg, m.keys.copy):
		if deal, ok := board.columns[board.focus].SelectedDeal(); ok {
			summary := fmt.Sprintf("%s — %s — %s (%s)", deal.Title, deal.Company, formatBRL(deal.Value), deal.Stage)
			if err := clipboard.WriteAll(summary); err != nil {
				m.log.WithError(err).Warn("clipboard write failed")
				return nil
			}
			m.setToast("Resumo copiado.", false)
		}
		return nil
	}

	return board.columns[board.focus].Update(msg)
}

// handleGrabOrDrop drives the grab-and-drop state machine, the keyboard
// analog of dragging a card between columns.
func (m *model) handleGrabOrDrop(msg tea.KeyMsg) tea.Cmd {
	board := &m.board
	if board.state.grabbedDealID == 0 {
		if key.Matches(msg, m.keys.drop) {
			// Enter with nothing grabbed falls through to the column list.
			return board.columns[board.focus].Update(msg)
		}
		if deal, ok := board.columns[board.focus].SelectedDeal(); ok {
			board.state.grab(deal.ID)
			m.refreshBoardColumns()
		}
		return nil
	}

	target := dealStages[board.focus]
	result, id := board.state.dropOn(target)
	m.refreshBoardColumns()
	switch result {
	case dropMove:
		return m.moveDealCmd(id, target)
	case dropRejected:
		m.setToast("Aguarde: o card ainda está sincronizando.", true)
	}
	return nil
}

func (m *model) refreshBoardColumns() {
	state := m.board.state
	for i, col := range m.board.columns {
		stage := dealStages[i]
		col.SetDeals(state.stageDeals(stage), state.grabbedDealID, state.movePending)
	}
}

func (m *model) openDealForm(stage string) {
	owners := defaultOwnerNames()
	defaultOwner := owners[0]
	if m.ui != nil && m.ui.DefaultOwner != "" {
		defaultOwner = m.ui.DefaultOwner
	}
	fields := []formField{
		textField("Título do Negócio", "Ex: Consultoria Completa", "", true),
		textField("Empresa / Cliente", "Nome da Empresa", "", true),
		numberField("Valor Estimado (R$)", "0,00", "", true),
		selectField("Responsável", owners, defaultOwner),
		selectField("Produto de Interesse", defaultProductTitles(), defaultProductTitles()[0]),
	}
	m.board.form = newModalForm(fmt.Sprintf("Novo Negócio em %s", stage), fields)
	m.board.formKind = boardFormDeal
	m.board.formStage = stage
}

func (m *model) openActivityForm(deal Deal, activityType string) {
	duration, title := activityDefaults(activityType)
	fields := []formField{
		selectField("Tipo", activityTypes, activityType),
		textField("Assunto", "", title, true),
		textField("Data (2006-01-02 15:04)", "agora", "", false),
		numberField("Duração (min)", "", fmt.Sprintf("%d", duration), false),
	}
	formTitle := "Nova Atividade"
	if activityType == ActivityMeeting {
		formTitle = "Nova Reunião"
	}
	m.board.form = newModalForm(fmt.Sprintf("%s — %s", formTitle, deal.Title), fields)
	m.board.formKind = boardFormActivity
	m.board.formDealID = deal.ID
	m.board.formDealTitle = deal.Title
}

func (m *model) updateBoardForm(msg tea.Msg) tea.Cmd {
	cmd, done, cancelled := m.board.form.Update(msg)
	if cancelled {
		m.closeBoardForm()
		return nil
	}
	if !done {
		return cmd
	}

	form := m.board.form
	kind := m.board.formKind
	stage := m.board.formStage
	dealID := m.board.formDealID
	m.closeBoardForm()

	switch kind {
	case boardFormDeal:
		payload := newDealPayload(
			form.field(0).value(),
			form.field(1).value(),
			form.field(2).floatValue(),
			stage,
			form.field(4).value(),
			form.field(3).value(),
		)
		return m.createDealCmd(payload)
	case boardFormActivity:
		payload := newActivityPayload(
			form.field(0).value(),
			form.field(1).value(),
			parseDateInput(form.field(2).value()),
			form.field(3).intValue(),
			dealID,
		)
		return m.createActivityCmd(payload)
	}
	return nil
}

func (m *model) closeBoardForm() {
	m.board.form = nil
	m.board.formKind = boardFormNone
	m.board.formDealID = 0
	m.board.formDealTitle = ""
}

func (m *model) viewBoard() string {
	board := &m.board
	if board.form != nil {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			board.form.View(m.styles, 52))
	}
	if board.state.loadErr != nil {
		return m.styles.panel.Width(m.width - 2).Render(
			"Falha ao carregar o pipeline.\nPressione r para tentar novamente.")
	}
	if !board.state.loaded {
		return m.styles.statusHint.Render("  " + m.spin.View() + " carregando pipeline…")
	}

	cols := make([]string, 0, len(board.columns))
	for i, col := range board.columns {
		stage := dealStages[i]
		cols = append(cols, col.View(m.styles, i == board.focus,
			board.state.stageTotal(stage), len(board.state.stageDeals(stage))))
	}
	view := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if board.state.grabbedDealID != 0 {
		hint := m.styles.grabbed.Render("◆ card na mão — navegue até a coluna e pressione espaço para soltar, esc cancela")
		view = lipgloss.JoinVertical(lipgloss.Left, hint, view)
	}
	return view
}
