package main

import "github.com/charmbracelet/lipgloss"

type colorPalette struct {
	accent    lipgloss.AdaptiveColor
	success   lipgloss.AdaptiveColor
	danger    lipgloss.AdaptiveColor
	textMuted lipgloss.AdaptiveColor
}

var palette = colorPalette{
	accent:    lipgloss.AdaptiveColor{Light: "166", Dark: "208"},
	success:   lipgloss.AdaptiveColor{Light: "28", Dark: "40"},
	danger:    lipgloss.AdaptiveColor{Light: "124", Dark: "196"},
	textMuted: lipgloss.AdaptiveColor{Light: "243", Dark: "245"},
}

type styles struct {
	app, topBar, topStatus           lipgloss.Style
	tabActive, tabInactive, tabsRow  lipgloss.Style
	panel, panelFocused, columnTitle lipgloss.Style
	columnTotal                      lipgloss.Style
	listItem, listSel                lipgloss.Style
	statusBar, statusSeg, statusHint lipgloss.Style
	toast, toastError                lipgloss.Style
	formOverlay, formLabel, formHint lipgloss.Style
	detailTitle                      lipgloss.Style
	grabbed                          lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Padding(0, 1).Bold(true),
		topStatus:    base.Padding(0, 1).Foreground(palette.textMuted),
		tabActive:    base.Copy().Bold(true).Padding(0, 1).Foreground(palette.accent),
		tabInactive:  base.Padding(0, 1).Foreground(palette.textMuted),
		tabsRow:      base.Padding(0, 1),
		panel:        base.BorderStyle(panelBorder),
		panelFocused: base.BorderStyle(focusedBorder),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		columnTotal:  base.Padding(0, 1).Foreground(palette.textMuted),
		listItem:     base.Padding(0, 1),
		listSel:      base.Padding(0, 1).Bold(true),
		statusBar:    base.Padding(0, 1),
		statusSeg:    base.Padding(0, 1).MarginRight(1),
		statusHint:   base.Foreground(palette.textMuted),
		toast:        base.Padding(0, 1).Foreground(palette.success),
		toastError:   base.Padding(0, 1).Bold(true).Foreground(palette.danger),
		formOverlay:  base.Border(lipgloss.RoundedBorder()).Padding(1, 2),
		formLabel:    base.Copy().Bold(true),
		formHint:     base.Copy().Faint(true),
		detailTitle:  base.Copy().Bold(true).Padding(0, 1),
		grabbed:      base.Copy().Bold(true).Foreground(palette.accent),
	}
}
