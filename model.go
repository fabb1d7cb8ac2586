package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type screen int

const (
	screenLogin screen = iota
	screenBoard
	screenLeads
	screenClients
	screenProducts
	screenLedger
	screenOnboarding
)

var screenNames = map[screen]string{
	screenLogin:      "Login",
	screenBoard:      "Pipeline",
	screenLeads:      "Leads",
	screenClients:    "Clientes",
	screenProducts:   "Produtos",
	screenLedger:     "Ledger",
	screenOnboarding: "Onboarding",
}

// tabOrder is the set of screens reachable once authenticated.
var tabOrder = []screen{screenBoard, screenLeads, screenClients, screenProducts, screenLedger, screenOnboarding}

type keyMap struct {
	quit     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	reload   key.Binding
	showHelp key.Binding

	grab     key.Binding
	drop     key.Binding
	newDeal  key.Binding
	meeting  key.Binding
	activity key.Binding
	copy     key.Binding

	create  key.Binding
	edit    key.Binding
	remove  key.Binding
	convert key.Binding
	logout  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "sair"),
		),
		nextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "próxima aba"),
		),
		prevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "aba anterior"),
		),
		reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recarregar"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		grab: key.NewBinding(
			key.WithKeys(" ", "g"),
			key.WithHelp("espaço", "pegar/soltar card"),
		),
		drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "soltar card"),
		),
		newDeal: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "novo negócio"),
		),
		meeting: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "nova reunião"),
		),
		activity: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "nova atividade"),
		),
		copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copiar resumo"),
		),
		create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "novo registro"),
		),
		edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "editar"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "excluir"),
		),
		convert: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "converter em negócio"),
		),
		logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.reload, k.grab, k.newDeal, k.showHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextTab, k.prevTab, k.reload, k.quit, k.logout},
		{k.grab, k.drop, k.newDeal, k.meeting, k.activity, k.copy},
		{k.create, k.edit, k.remove, k.convert, k.showHelp},
	}
}

type model struct {
	cfg       apiConfig
	ui        *uiConfig
	uiPath    string
	styles    styles
	keys      keyMap
	help      help.Model
	log       *logrus.Logger
	telemetry *telemetryLogger
	session   *sessionStore
	api       *apiClient
	svc       services

	width  int
	height int
	active screen
	authed bool
	user   User

	spin      spinner.Model
	busy      bool
	busyLabel string

	toastMessage string
	toastExpires time.Time
	toastIsErr   bool
	showHelp     bool

	login      loginUI
	board      boardUI
	leads      leadsUI
	clients    clientsUI
	products   productsUI
	ledger     ledgerUI
	onboarding onboardingUI
}

func initialModel(cfg apiConfig, session *sessionStore, log *logrus.Logger) *model {
	s := newStyles()
	m := &model{
		cfg:     cfg,
		styles:  s,
		keys:    newKeyMap(),
		help:    help.New(),
		log:     log,
		session: session,
		active:  screenLogin,
	}

	m.ui, m.uiPath = loadUIConfig()
	if theme := strings.TrimSpace(m.ui.Theme); theme != "" {
		setMarkdownTheme(markdownThemeFromString(theme))
	}

	m.telemetry = newTelemetryLogger(filepath.Join(resolveConfigDir(), "ui-events.ndjson"))
	m.api = newAPIClient(cfg, session, log)
	m.svc = newServices(m.api)

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spin.Style = s.statusHint.Copy().Bold(true)

	m.initLogin()
	m.initBoard(s)
	m.initLeads(s)
	m.initClients(s)
	m.initProducts(s)
	m.initLedger(s)
	m.initOnboarding(s)

	// A surviving access token skips the login screen; the first request
	// falls back to refresh-or-login if it is stale.
	if access, _ := session.Tokens(); access != "" {
		m.authed = true
		m.active = screenBoard
	}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.authed {
		cmds = append(cmds, m.loadBoardCmd(), m.fetchMeCmd())
	}
	return tea.Batch(cmds...)
}

type loginResultMsg struct {
	pair tokenPair
	user User
	err  error
}

type meLoadedMsg struct {
	user User
	err  error
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loginResultMsg:
		return m, m.handleLoginResult(msg)

	case meLoadedMsg:
		if msg.err == nil {
			m.user = msg.user
			m.telemetry.SetUser(fmt.Sprintf("%d", msg.user.ID))
		}
		m.checkAuthExpired()
		return m, nil
	}

	if m.active == screenLogin {
		return m, m.updateLogin(msg)
	}

	if handled, cmd := m.updateActiveForm(msg); handled {
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if handled, cmd := m.handleGlobalKey(keyMsg); handled {
			return m, cmd
		}
	}

	switch m.active {
	case screenBoard:
		cmds = append(cmds, m.updateBoard(msg))
	case screenLeads:
		cmds = append(cmds, m.updateLeads(msg))
	case screenClients:
		cmds = append(cmds, m.updateClients(msg))
	case screenProducts:
		cmds = append(cmds, m.updateProducts(msg))
	case screenLedger:
		cmds = append(cmds, m.updateLedger(msg))
	case screenOnboarding:
		cmds = append(cmds, m.updateOnboarding(msg))
	}

	return m, tea.Batch(cmds...)
}

// updateActiveForm routes input to whichever modal form is open.
func (m *model) updateActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	switch m.active {
	case screenBoard:
		if m.board.form != nil {
			return true, m.updateBoardForm(msg)
		}
	case screenLeads:
		if m.leads.form != nil {
			return true, m.updateLeadsForm(msg)
		}
	case screenClients:
		if m.clients.form != nil {
			return true, m.updateClientsForm(msg)
		}
	case screenProducts:
		if m.products.form != nil {
			return true, m.updateProductsForm(msg)
		}
	case screenLedger:
		if m.ledger.form != nil {
			return true, m.updateLedgerForm(msg)
		}
	case screenOnboarding:
		if m.onboarding.form != nil {
			return true, m.updateOnboardingForm(msg)
		}
	}
	return false, nil
}

func (m *model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.listFilterActive() {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.persistUIConfig()
		return true, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		return true, m.switchTab(1)
	case key.Matches(msg, m.keys.prevTab):
		return true, m.switchTab(-1)
	case key.Matches(msg, m.keys.showHelp):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return true, nil
	case key.Matches(msg, m.keys.reload):
		return true, m.reloadActive()
	case key.Matches(msg, m.keys.logout):
		return true, m.logout()
	}

	if idx := digitKeyIndex(msg.String()); idx >= 0 && idx < len(tabOrder) {
		return true, m.switchTo(tabOrder[idx])
	}
	return false, nil
}

func digitKeyIndex(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

func (m *model) switchTab(delta int) tea.Cmd {
	current := 0
	for i, sc := range tabOrder {
		if sc == m.active {
			current = i
			break
		}
	}
	next := (current + delta + len(tabOrder)) % len(tabOrder)
	return m.switchTo(tabOrder[next])
}

func (m *model) switchTo(target screen) tea.Cmd {
	if m.active == target {
		return nil
	}
	m.active = target
	m.telemetry.Emit(telemetryEvent{Event: "screen.open", Screen: screenNames[target]})
	return m.loadIfNeeded(target)
}

func (m *model) loadIfNeeded(target screen) tea.Cmd {
	switch target {
	case screenBoard:
		if !m.board.state.loaded {
			return m.loadBoardCmd()
		}
	case screenLeads:
		if !m.leads.loaded {
			return m.loadLeadsCmd()
		}
	case screenClients:
		if !m.clients.loaded {
			return m.loadClientsCmd()
		}
	case screenProducts:
		if !m.products.loaded {
			return m.loadProductsCmd()
		}
	case screenLedger:
		if !m.ledger.loaded {
			return m.loadLedgerCmd()
		}
	case screenOnboarding:
		if !m.onboarding.loaded {
			return m.loadOnboardingCmd()
		}
	}
	return nil
}

func (m *model) reloadActive() tea.Cmd {
	switch m.active {
	case screenBoard:
		return m.loadBoardCmd()
	case screenLeads:
		return m.loadLeadsCmd()
	case screenClients:
		return m.loadClientsCmd()
	case screenProducts:
		return m.loadProductsCmd()
	case screenLedger:
		return m.loadLedgerCmd()
	case screenOnboarding:
		return m.loadOnboardingCmd()
	}
	return nil
}

// checkAuthExpired flips back to the login screen after the transport gave
// up on a session. Called whenever an async result arrives.
func (m *model) checkAuthExpired() {
	if !m.api.consumeAuthExpired() {
		return
	}
	m.authed = false
	m.user = User{}
	m.active = screenLogin
	m.resetLogin("Sessão expirada. Faça login novamente.")
	m.log.Info("auth expired, returned to login screen")
}

func (m *model) logout() tea.Cmd {
	if err := m.session.Clear(); err != nil {
		m.log.WithError(err).Warn("failed to clear session on logout")
	}
	m.telemetry.Emit(telemetryEvent{Event: "logout"})
	m.authed = false
	m.user = User{}
	m.active = screenLogin
	m.resetLogin("")
	return nil
}

func (m *model) setToast(msg string, isErr bool) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	m.toastMessage = trimmed
	m.toastIsErr = isErr
	m.toastExpires = time.Now().Add(5 * time.Second)
}

func (m *model) persistUIConfig() {
	if m.ui == nil {
		return
	}
	if err := saveUIConfig(m.ui, m.uiPath); err != nil {
		m.log.WithError(err).Warn("failed to save ui config")
	}
}

func (m *model) resize() {
	bodyHeight := m.height - 4
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.resizeBoard(m.width, bodyHeight)
	m.resizeLists(m.width, bodyHeight)
	m.help.Width = m.width
}

func (m *model) fetchMeCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		user, err := svc.auth.Me()
		return meLoadedMsg{user: user, err: err}
	}
}

func (m *model) View() string {
	if m.width == 0 {
		return "carregando…"
	}
	if m.active == screenLogin {
		return m.viewLogin()
	}

	top := m.viewTopBar()
	tabs := m.viewTabs()
	var body string
	switch m.active {
	case screenBoard:
		body = m.viewBoard()
	case screenLeads:
		body = m.viewLeads()
	case screenClients:
		body = m.viewClients()
	case screenProducts:
		body = m.viewProducts()
	case screenLedger:
		body = m.viewLedger()
	case screenOnboarding:
		body = m.viewOnboarding()
	}
	status := m.viewStatusBar()
	return lipgloss.JoinVertical(lipgloss.Left, top, tabs, body, status)
}

func (m *model) viewTopBar() string {
	left := m.styles.topBar.Render("Potencialize Ops")
	var right string
	if m.user.Name != "" {
		right = m.user.Name
	}
	if access, _ := m.session.Tokens(); access != "" {
		if claims, ok := peekSessionClaims(access); ok && !claims.ExpiresAt.IsZero() {
			right += fmt.Sprintf(" · sessão até %s", claims.ExpiresAt.Local().Format("15:04"))
		}
	}
	rightRendered := m.styles.topStatus.Render(right)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(rightRendered)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + rightRendered
}

func (m *model) viewTabs() string {
	var tabs []string
	for i, sc := range tabOrder {
		label := fmt.Sprintf("%d %s", i+1, screenNames[sc])
		if sc == m.active {
			tabs = append(tabs, m.styles.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.tabInactive.Render(label))
		}
	}
	return m.styles.tabsRow.Render(strings.Join(tabs, " "))
}

func (m *model) viewStatusBar() string {
	if m.toastMessage != "" && time.Now().Before(m.toastExpires) {
		style := m.styles.toast
		if m.toastIsErr {
			style = m.styles.toastError
		}
		return m.styles.statusBar.Render(style.Render(m.toastMessage))
	}
	var segments []string
	if m.busy {
		segments = append(segments, m.spin.View()+" "+m.busyLabel)
	}
	segments = append(segments, m.help.View(m.keys))
	return m.styles.statusBar.Render(strings.Join(segments, "  "))
}
