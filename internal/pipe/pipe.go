// Package pipe detects pipeline execution so the picker can read options
// from stdin and keep stdout clean for the selected value.
package pipe

import (
	"io"
	"os"

	xterm "github.com/charmbracelet/x/term"
	"golang.org/x/term"
)

// IsStdinPiped returns true if stdin is receiving piped input.
func IsStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if stdin is a pipe or has data
	return (stat.Mode()&os.ModeCharDevice) == 0 || stat.Size() > 0
}

// IsStdoutPiped returns true if stdout is being piped to another process.
func IsStdoutPiped() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// ReadStdin reads all available data from stdin.
// Returns nil if stdin is not piped.
func ReadStdin() ([]byte, error) {
	if !IsStdinPiped() {
		return nil, nil
	}
	return io.ReadAll(os.Stdin)
}

// UIOutput returns where the interface should be drawn: stderr when stdout
// is piped, so only the result reaches the next process.
func UIOutput() *os.File {
	if IsStdoutPiped() {
		return os.Stderr
	}
	return os.Stdout
}

// TerminalSize returns the size of the terminal f is attached to, or ok=false.
func TerminalSize(f *os.File) (width, height int, ok bool) {
	w, h, err := xterm.GetSize(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
