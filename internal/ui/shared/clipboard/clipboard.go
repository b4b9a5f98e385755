// Package clipboard copies text to the system clipboard from inside a
// terminal UI.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoTool is returned when no native clipboard command is installed.
var ErrNoTool = errors.New("no clipboard tool found")

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// System implements Clipboard using the system clipboard. Remote and
// screen sessions use OSC 52 escape sequences; local ones use native tools,
// falling back to OSC 52 when none is installed.
type System struct{}

// Copy copies text to the system clipboard.
func (System) Copy(text string) error {
	if preferOSC52(os.Getenv) {
		return copyViaOSC52(text)
	}
	err := copyViaNative(text)
	if errors.Is(err, ErrNoTool) {
		return copyViaOSC52(text)
	}
	return err
}

// preferOSC52 reports whether the terminal is remote (SSH) or inside GNU
// screen, where native tools would reach the wrong machine or none at all.
func preferOSC52(getenv func(string) string) bool {
	for _, k := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION", "STY"} {
		if getenv(k) != "" {
			return true
		}
	}
	return false
}

// osc52 builds the escape sequence, wrapped in a DCS passthrough under tmux.
func osc52(text string, tmux bool) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if tmux {
		return fmt.Sprintf("\x1bPtmux;\x1b\x1b]52;c;%s\x07\x1b\\", encoded)
	}
	return fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
}

// copyViaOSC52 writes to /dev/tty so it works under the alt screen.
func copyViaOSC52(text string) (err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open /dev/tty: %w", err)
	}
	defer func() {
		if closeErr := tty.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = tty.WriteString(osc52(text, os.Getenv("TMUX") != ""))
	return err
}

// nativeCommand picks the first available clipboard tool for goos.
func nativeCommand(goos string, lookPath func(string) (string, error)) ([]string, error) {
	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip"}}
	default:
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoTool
}

func copyViaNative(text string) error {
	argv, err := nativeCommand(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // argv comes from a fixed list
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
