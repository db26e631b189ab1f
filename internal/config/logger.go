package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger writing to w at the level named by
// ORBIT_LOG_LEVEL (info when unset).
func NewLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level := log.InfoLevel
	if v := GetEnv("ORBIT_LOG_LEVEL", ""); v != "" {
		l, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("ORBIT_LOG_LEVEL: %w", err)
		}
		level = l
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}

// FileLogger returns a logger appending to the file named by
// ORBIT_LOG_FILE. Frontends that own the terminal use it; with the variable
// unset the logger discards everything. The returned func closes the file.
func FileLogger(prefix string) (*log.Logger, func() error, error) {
	path := GetEnv("ORBIT_LOG_FILE", "")
	if path == "" {
		logger, err := NewLogger(io.Discard, prefix)
		return logger, func() error { return nil }, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := NewLogger(f, prefix)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f.Close, nil
}
