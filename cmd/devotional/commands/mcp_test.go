// ABOUTME: Tests for MCP command
// ABOUTME: Verifies MCP server command structure and documentation
package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, want := range []string{"MCP", "LLM", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %q", want)
		}
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}

	if !strings.Contains(cmd.Example, "claude_desktop_config.json") {
		t.Error("Example should show Claude Desktop configuration")
	}
}
