// Package shell is the optional host-shell collaborator: desktop
// integrations the app can use when present but must run fully without.
// Every call degrades to a sensible plain-mode answer when no shell is
// attached.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnavailable is returned for operations the current host cannot perform.
var ErrUnavailable = errors.New("shell: not available on this host")

// Shell exposes host desktop integrations.
type Shell interface {
	// DataDir returns the application data directory.
	DataDir() (string, error)
	// SetAutostart toggles launching the app at login.
	SetAutostart(enabled bool) error
	// AutostartEnabled reports the current autostart state.
	AutostartEnabled() bool
}

// Detect returns the best shell for the current host. There is always at
// least the local filesystem integration.
func Detect() Shell {
	return &localShell{}
}

// None returns a shell that answers every call with plain-mode defaults.
// Used by tests and headless environments.
func None() Shell {
	return noneShell{}
}

type noneShell struct{}

func (noneShell) DataDir() (string, error) { return "", ErrUnavailable }
func (noneShell) SetAutostart(bool) error  { return ErrUnavailable }
func (noneShell) AutostartEnabled() bool   { return false }

// localShell integrates with the local desktop through XDG conventions.
type localShell struct{}

func (s *localShell) DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("shell: %w", err)
	}
	return filepath.Join(home, ".calendarly"), nil
}

func (s *localShell) autostartPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", "calendarly.desktop"), nil
}

const desktopEntry = `[Desktop Entry]
Type=Application
Name=Calendarly
Exec=calendarly
X-GNOME-Autostart-enabled=true
`

func (s *localShell) SetAutostart(enabled bool) error {
	path, err := s.autostartPath()
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	if !enabled {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("shell: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry), 0644); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

func (s *localShell) AutostartEnabled() bool {
	path, err := s.autostartPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
