package ui

import (
	"strings"
	"testing"
)

func TestState(t *testing.T) {
	for _, tc := range []struct {
		state string
		code  string
	}{
		{state: "running", code: "71"},
		{state: "exited", code: "167"},
		{state: "dead", code: "167"},
		{state: "created", code: "245"},
		{state: "paused", code: "245"},
	} {
		got := State(tc.state)
		if !strings.Contains(got, tc.state) {
			t.Errorf("State(%q) = %q, state name missing", tc.state, got)
		}
		if !strings.Contains(got, ";"+tc.code+"m") {
			t.Errorf("State(%q) = %q, want color %s", tc.state, got, tc.code)
		}
	}

	ForceNoColor()
	if got := State("running"); got != "running" {
		t.Errorf("State with color disabled = %q, want bare state", got)
	}
}
