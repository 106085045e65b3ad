package ui

import "fmt"

// ANSI256 colors for the container states the status table renders.
const (
	colorRunning = 71  // green
	colorFailed  = 167 // red
	colorOther   = 245 // gray
)

var noColor bool

// State colors a container state for terminal output: green while running,
// red for exited or dead, gray for everything in between (created, paused,
// restarting).
func State(state string) string {
	if noColor {
		return state
	}
	code := colorOther
	switch state {
	case "running":
		code = colorRunning
	case "exited", "dead":
		code = colorFailed
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, state)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
