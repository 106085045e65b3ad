package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive reports whether both stdin and stdout are terminals. The
// psql attach refuses to run without one, since the client would otherwise
// read a closed stdin and exit immediately.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor reports whether stdout should get ANSI color. A non-empty
// NO_COLOR (https://no-color.org) always wins, CLICOLOR_FORCE=1 forces color
// on, CLICOLOR=0 switches it off, and otherwise color follows TTY detection.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
