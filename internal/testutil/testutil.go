// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// Host is a fixed process identity. It satisfies config.Host.
type Host struct {
	Name string
	UID  int
	// Dir is returned by Getwd.
	Dir     string
	UserErr error
	WdErr   error
}

// NewHost returns a Host for user "alice" (uid 1000) whose working
// directory is a fresh temporary directory.
func NewHost(t testing.TB) *Host {
	t.Helper()
	return &Host{Name: "alice", UID: 1000, Dir: t.TempDir()}
}

// CurrentUser returns the configured identity or UserErr.
func (h *Host) CurrentUser() (string, int, error) {
	if h.UserErr != nil {
		return "", 0, h.UserErr
	}
	return h.Name, h.UID, nil
}

// Getwd returns Dir or WdErr.
func (h *Host) Getwd() (string, error) {
	if h.WdErr != nil {
		return "", h.WdErr
	}
	return h.Dir, nil
}

// NewLogger returns a debug-level slog.Logger backed by a charm logger that
// writes plain text to the returned buffer.
func NewLogger(t testing.TB) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	handler := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	return slog.New(handler), &buf
}

// MustWriteFile writes content to dir/name and returns the full path.
// The test fails immediately if the write fails.
func MustWriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// The test fails immediately if the directory change fails.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}
