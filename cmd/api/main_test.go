package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered (err %v)", name, err)
		}
	}
}

func TestMigrateListPrintsEmbeddedFiles(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--list"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Fields(out.String())
	if len(lines) == 0 || lines[0] != "0001_extensions.sql" {
		t.Errorf("migrations = %v", lines)
	}
}
