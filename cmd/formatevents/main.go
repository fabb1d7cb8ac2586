// Command formatevents renders the console's ndjson event stream as a
// readable per-session report.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

type rawEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Screen    string            `json:"screen"`
	EntityID  string            `json:"entity_id"`
	ExtraJSON map[string]string `json:"extra_json"`
}

type sessionReport struct {
	id     string
	userID string
	first  time.Time
	last   time.Time
	events []rawEvent
	counts map[string]int
}

func main() {
	var inputPath string
	var outputPath string
	flag.StringVar(&inputPath, "in", "", "input ndjson event file (required)")
	flag.StringVar(&outputPath, "out", "", "output file path (optional, defaults to stdout)")
	flag.Parse()

	if inputPath == "" {
		exitWithError(errors.New("missing --in path"))
	}

	sessions, err := parseEventFile(inputPath)
	if err != nil {
		exitWithError(fmt.Errorf("parse events: %w", err))
	}

	rendered := renderSessions(sessions)
	if outputPath == "" {
		fmt.Println(rendered)
		return
	}
	if err := os.WriteFile(outputPath, []byte(rendered+"\n"), 0o644); err != nil {
		exitWithError(fmt.Errorf("write output: %w", err))
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "formatevents: %v\n", err)
	os.Exit(1)
}

func parseEventFile(path string) ([]*sessionReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseEvents(bufio.NewScanner(file))
}

func parseEvents(scanner *bufio.Scanner) ([]*sessionReport, error) {
	byID := map[string]*sessionReport{}
	var order []string

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var evt rawEvent
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if evt.Event == "" {
			continue
		}
		report, ok := byID[evt.SessionID]
		if !ok {
			report = &sessionReport{id: evt.SessionID, counts: map[string]int{}}
			byID[evt.SessionID] = report
			order = append(order, evt.SessionID)
		}
		if report.first.IsZero() || evt.Timestamp.Before(report.first) {
			report.first = evt.Timestamp
		}
		if evt.Timestamp.After(report.last) {
			report.last = evt.Timestamp
		}
		if evt.UserID != "" {
			report.userID = evt.UserID
		}
		report.events = append(report.events, evt)
		report.counts[evt.Event]++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sessions := make([]*sessionReport, 0, len(order))
	for _, id := range order {
		sessions = append(sessions, byID[id])
	}
	return sessions, nil
}

func renderSessions(sessions []*sessionReport) string {
	if len(sessions) == 0 {
		return "no events"
	}
	var out []string
	for _, s := range sessions {
		out = append(out, renderSession(s)...)
		out = append(out, "")
	}
	return strings.Join(out[:len(out)-1], "\n")
}

func renderSession(s *sessionReport) []string {
	var out []string
	out = append(out, "------------------")
	header := fmt.Sprintf("Session %s", shortID(s.id))
	if s.userID != "" {
		header += fmt.Sprintf(" · user %s", s.userID)
	}
	if !s.first.IsZero() {
		header += fmt.Sprintf(" · %s (%s)", s.first.Local().Format("2006-01-02 15:04"), s.last.Sub(s.first).Round(time.Second))
	}
	out = append(out, header)
	out = append(out, "------------------")

	names := make([]string, 0, len(s.counts))
	for name := range s.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s: %d", name, s.counts[name]))
	}

	out = append(out, "")
	for _, evt := range s.events {
		line := fmt.Sprintf("  %s  %s", evt.Timestamp.Local().Format("15:04:05"), evt.Event)
		if evt.Screen != "" {
			line += " @" + evt.Screen
		}
		if evt.EntityID != "" {
			line += " #" + evt.EntityID
		}
		for key, value := range evt.ExtraJSON {
			line += fmt.Sprintf(" %s=%s", key, value)
		}
		out = append(out, line)
	}
	out = append(out, "------------------")
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "(unknown)"
	}
	return id
}
