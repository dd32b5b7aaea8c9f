package main

import (
	"bytes"
	"strings"
	"testing"
)

// runCLI executes the command tree with captured output.
func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, needle string) {
	t.Helper()
	if !strings.Contains(output, needle) {
		t.Fatalf("output %q does not contain %q", output, needle)
	}
}

func TestRootCommandShowsHelp(t *testing.T) {
	out, err := runCLI(t, []string{"--help"})
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, out, "report")
	requireContains(t, out, "rematch")
	requireContains(t, out, "matches")
}

func TestRenderMatchTableAlignsColumns(t *testing.T) {
	output := renderTable(
		[]string{"ID", "Text"},
		[][]string{{"1", "0.55"}, {"2", "0.80"}},
		[]columnAlignment{alignRight, alignRight},
		false,
	)
	if !strings.Contains(output, "0.55") || !strings.Contains(output, "0.80") {
		t.Fatalf("table missing rows:\n%s", output)
	}
}

func TestShouldSkipConfigAnnotation(t *testing.T) {
	root := newRootCommand()
	cmd, _, err := root.Find([]string{"config", "init"})
	if err != nil {
		t.Fatalf("find config init: %v", err)
	}
	if !shouldSkipConfig(cmd) {
		t.Fatal("config init should skip config loading")
	}

	cmd, _, err = root.Find([]string{"status"})
	if err != nil {
		t.Fatalf("find status: %v", err)
	}
	if shouldSkipConfig(cmd) {
		t.Fatal("status should load config")
	}
}
