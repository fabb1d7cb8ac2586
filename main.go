package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	theme := flag.String("theme", "auto", "Markdown rendering theme: auto, light, or dark")
	flag.Parse()
	setMarkdownTheme(markdownThemeFromString(*theme))

	cfg, err := loadAPIConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	dir := resolveConfigDir()
	log := newLogger(dir)

	session, err := openSessionStore(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer session.Close()

	if _, err := tea.NewProgram(
		initialModel(cfg, session, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
