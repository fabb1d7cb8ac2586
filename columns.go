package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type listEntry struct {
	title   string
	desc    string
	payload any
}

func (e listEntry) Title() string       { return e.title }
func (e listEntry) Description() string { return e.desc }
func (e listEntry) FilterValue() string { return e.title + " " + e.desc }

// newEntryList builds a bubbles list with the delegate styling shared by
// every column and view in the console.
func newEntryList(title string, s styles, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel.Foreground(palette.textMuted)
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Foreground(palette.textMuted)

	m := list.New(nil, delegate, width, height)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)
	return m
}

// stageColumn renders one pipeline stage: header with deal count and value
// total, then the stage's cards.
type stageColumn struct {
	stage  string
	model  list.Model
	width  int
	height int
}

func newStageColumn(stage string, s styles, width int) *stageColumn {
	m := newEntryList(stage, s, width, 20)
	m.SetShowTitle(false)
	return &stageColumn{stage: stage, model: m, width: width}
}

func (c *stageColumn) SetSize(width, height int) {
	c.width = width
	if height < 5 {
		height = 5
	}
	c.height = height
	c.model.SetSize(width, height-3)
}

// SetDeals rebuilds the card list. The grabbed card keeps a visible marker.
func (c *stageColumn) SetDeals(deals []Deal, grabbedID int, pending func(int) bool) {
	prev := c.model.Index()
	items := make([]list.Item, 0, len(deals))
	for _, d := range deals {
		title := d.Title
		if d.ID == grabbedID {
			title = "◆ " + title
		}
		desc := fmt.Sprintf("%s · %s · %s", d.Company, formatBRL(d.Value), firstName(d.Owner))
		if pending != nil && pending(d.ID) {
			desc += " · sincronizando…"
		}
		items = append(items, listEntry{title: title, desc: desc, payload: d})
	}
	c.model.SetItems(items)
	if prev >= len(items) {
		prev = len(items) - 1
	}
	if prev >= 0 {
		c.model.Select(prev)
	}
}

func (c *stageColumn) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return cmd
}

func (c *stageColumn) SelectedDeal() (Deal, bool) {
	if entry, ok := c.model.SelectedItem().(listEntry); ok {
		if deal, ok := entry.payload.(Deal); ok {
			return deal, true
		}
	}
	return Deal{}, false
}

func (c *stageColumn) View(s styles, focused bool, total float64, count int) string {
	header := s.columnTitle.Render(fmt.Sprintf("%s (%d)", c.stage, count))
	totalLine := s.columnTotal.Render(formatBRL(total))
	body := lipgloss.JoinVertical(lipgloss.Left, header, totalLine, c.model.View())
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func firstName(full string) string {
	for i, r := range full {
		if r == ' ' {
			return full[:i]
		}
	}
	return full
}
