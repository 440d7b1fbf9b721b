// ABOUTME: Tests for root command wiring: subcommands and global flags
// ABOUTME: Builds the command tree without touching the store or network
package commands

import "testing"

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "study" {
		t.Errorf("Use = %q, want study", cmd.Use)
	}

	want := []string{"ingest", "search", "chat", "delete", "stats", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCmd_UserFlag(t *testing.T) {
	cmd := NewRootCmd()

	flag := cmd.PersistentFlags().Lookup("user")
	if flag == nil {
		t.Fatal("missing persistent --user flag")
	}
	if flag.DefValue != "local" {
		t.Errorf("--user default = %q, want local", flag.DefValue)
	}
}
