// ABOUTME: Shared helpers for command tests
// ABOUTME: Runs the root command against a throwaway SQLite database
package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

// setupEnv points the CLI at a fresh SQLite file and disables rephrasing
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DEVOTIONAL_STORE", "sqlite")
	t.Setenv("DEVOTIONAL_DB_PATH", filepath.Join(t.TempDir(), "devotional.db"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEVOTIONAL_LOG_LEVEL", "error")
	t.Setenv("DEVOTIONAL_TIMEZONE", "UTC")
}

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// runJSON executes the command with --format json and decodes stdout into v
func runJSON(t *testing.T, v interface{}, args ...string) {
	t.Helper()
	out, err := run(t, append([]string{"--format", "json"}, args...)...)
	if err != nil {
		t.Fatalf("%v error = %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decoding %v output: %v\n%s", args, err, out)
	}
}
