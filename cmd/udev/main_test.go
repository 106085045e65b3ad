package main

import (
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	want := []string{
		"render", "up", "stop", "down", "status", "wait",
		"psql", "logs", "check", "events", "serve", "profile",
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestCheckFlagsMutuallyExclusive(t *testing.T) {
	checkCmd.Flags().Set("write", "true")
	checkCmd.Flags().Set("verify", "mk-x")
	t.Cleanup(func() {
		checkCmd.Flags().Set("write", "false")
		checkCmd.Flags().Set("verify", "")
	})
	if err := checkCmd.ValidateFlagGroups(); err == nil {
		t.Error("expected --write and --verify to be rejected together")
	}
}
