package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "modernc.org/sqlite"
)

const (
	credentialAccessToken  = "access_token"
	credentialRefreshToken = "refresh_token"
)

// sessionStore persists the token pair between runs. It replaces the ambient
// browser storage of the web client with an injectable object so the refresh
// and logout paths are testable against a temp directory.
type sessionStore struct {
	db   *sql.DB
	path string
}

func openSessionStore(dir string) (*sessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	sqlitePath := filepath.Join(dir, "session.sqlite")
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := migrateSessionStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sessionStore{db: db, path: sqlitePath}, nil
}

func migrateSessionStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("session store migration failed: %w", err)
		}
	}
	return nil
}

func (s *sessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tokens returns the stored pair; either value may be empty.
func (s *sessionStore) Tokens() (access, refresh string) {
	if s == nil || s.db == nil {
		return "", ""
	}
	rows, err := s.db.Query(`SELECT name, value FROM credentials WHERE name IN (?, ?)`,
		credentialAccessToken, credentialRefreshToken)
	if err != nil {
		return "", ""
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return "", ""
		}
		switch name {
		case credentialAccessToken:
			access = value
		case credentialRefreshToken:
			refresh = value
		}
	}
	return access, refresh
}

func (s *sessionStore) SetAccess(token string) error {
	return s.put(credentialAccessToken, token)
}

func (s *sessionStore) SetPair(access, refresh string) error {
	if err := s.put(credentialAccessToken, access); err != nil {
		return err
	}
	return s.put(credentialRefreshToken, refresh)
}

func (s *sessionStore) Clear() error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM credentials WHERE name IN (?, ?)`,
		credentialAccessToken, credentialRefreshToken)
	return err
}

func (s *sessionStore) put(name, value string) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value)
	return err
}

type sessionClaims struct {
	UserID    int
	ExpiresAt time.Time
}

// peekSessionClaims decodes the access token without verifying it; the
// backend owns validation, the console only wants expiry for the status bar.
func peekSessionClaims(access string) (sessionClaims, bool) {
	access = strings.TrimSpace(access)
	if access == "" {
		return sessionClaims{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return sessionClaims{}, false
	}
	var out sessionClaims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if raw, ok := claims["user_id"].(float64); ok {
		out.UserID = int(raw)
	}
	return out, true
}
