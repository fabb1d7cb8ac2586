package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginUI struct {
	username   textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func (m *model) initLogin() {
	username := textinput.New()
	username.Placeholder = "usuário"
	username.CharLimit = 120
	username.Focus()

	password := textinput.New()
	password.Placeholder = "senha"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m.login = loginUI{username: username, password: password}
}

func (m *model) resetLogin(errMsg string) {
	m.initLogin()
	m.login.errMsg = errMsg
}

func (m *model) updateLogin(msg tea.Msg) tea.Cmd {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "ctrl+c":
			m.persistUIConfig()
			return tea.Quit
		case "tab", "shift+tab", "up", "down":
			m.login.focus = 1 - m.login.focus
			if m.login.focus == 0 {
				m.login.username.Focus()
				m.login.password.Blur()
			} else {
				m.login.username.Blur()
				m.login.password.Focus()
			}
			return nil
		case "enter":
			if m.login.focus == 0 {
				m.login.focus = 1
				m.login.username.Blur()
				m.login.password.Focus()
				return nil
			}
			return m.submitLogin()
		}
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return cmd
}

func (m *model) submitLogin() tea.Cmd {
	username := strings.TrimSpace(m.login.username.Value())
	password := m.login.password.Value()
	if username == "" || password == "" {
		m.login.errMsg = "Informe usuário e senha."
		return nil
	}
	if m.login.submitting {
		return nil
	}
	m.login.submitting = true
	m.login.errMsg = ""

	svc := m.svc
	return func() tea.Msg {
		pair, err := svc.auth.Login(username, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{pair: pair}
	}
}

func (m *model) handleLoginResult(msg loginResultMsg) tea.Cmd {
	m.login.submitting = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("login failed")
		m.login.errMsg = "Usuário ou senha inválidos."
		// Login failures also trip the transport's expiry flag; swallow it
		// so the login screen does not reset itself.
		m.api.consumeAuthExpired()
		return nil
	}
	if err := m.session.SetPair(msg.pair.Access, msg.pair.Refresh); err != nil {
		m.log.WithError(err).Error("failed to persist session tokens")
		m.login.errMsg = "Falha ao salvar a sessão."
		return nil
	}
	m.authed = true
	m.active = screenBoard
	m.telemetry.Emit(telemetryEvent{Event: "login"})
	return tea.Batch(m.loadBoardCmd(), m.fetchMeCmd())
}

func (m *model) viewLogin() string {
	s := m.styles
	var rows []string
	rows = append(rows,
		s.formLabel.Render("Potencialize Ops — Login"),
		"",
		s.formLabel.Render("Usuário"),
		m.login.username.View(),
		"",
		s.formLabel.Render("Senha"),
		m.login.password.View(),
	)
	if m.login.submitting {
		rows = append(rows, "", m.spin.View()+" autenticando…")
	}
	if m.login.errMsg != "" {
		rows = append(rows, "", s.formLabel.Foreground(palette.danger).Render(m.login.errMsg))
	}
	rows = append(rows, "", s.formHint.Render("enter: entrar · tab: alternar campo · ctrl+c: sair"))

	box := s.formOverlay.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
