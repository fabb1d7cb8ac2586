package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type telemetryEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Screen    string            `json:"screen,omitempty"`
	EntityID  string            `json:"entity_id,omitempty"`
	ExtraJSON map[string]string `json:"extra_json,omitempty"`
}

type telemetryLogger struct {
	path      string
	sessionID string
	userID    string
	mu        sync.Mutex
}

func newTelemetryLogger(path string) *telemetryLogger {
	dir := filepath.Dir(path)
	_ = os.MkdirAll(dir, 0o755)
	return &telemetryLogger{
		path:      path,
		sessionID: uuid.NewString(),
	}
}

// SetUser tags subsequent events with the authenticated user.
func (t *telemetryLogger) SetUser(userID string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.userID = strings.TrimSpace(userID)
	t.mu.Unlock()
}

func (t *telemetryLogger) Emit(event telemetryEvent) {
	if t == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if event.SessionID == "" {
		event.SessionID = t.sessionID
	}
	if event.UserID == "" {
		event.UserID = t.userID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if len(event.ExtraJSON) == 0 {
		event.ExtraJSON = nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(data)
}
