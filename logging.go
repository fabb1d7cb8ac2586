package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// newLogger writes structured entries to ops-console.log under the config
// directory. The TUI owns the terminal, so nothing may print to stdout.
func newLogger(dir string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	file, err := os.OpenFile(filepath.Join(dir, "ops-console.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(file)
	return log
}
