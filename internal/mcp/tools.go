// ABOUTME: MCP tool definitions and registration for the devotional server
// ABOUTME: Exposes catalog, guidance, reading plan, and journal operations to LLM agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/devotional/internal/app"
)

var categoryEnum = []string{"comfort", "peace", "forgiveness", "hope", "gratitude", "strength", "love"}

func str(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func category(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": categoryEnum}
}

func boolean(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": desc}
}

func object(required []string, props map[string]interface{}) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{Type: "object", Properties: props, Required: required}
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, a *app.App) *Handlers {
	handlers := NewHandlers(a)

	// Catalog
	server.AddTool(mcp.Tool{
		Name:        "list_content",
		Description: "List devotional content, optionally filtered by category or favorites.",
		InputSchema: object(nil, map[string]interface{}{
			"category":  category("Only list items in this category"),
			"favorites": boolean("Only list favorited items"),
		}),
	}, handlers.ListContent)

	server.AddTool(mcp.Tool{
		Name:        "get_content",
		Description: "Get one devotional item by id, including verse, reference, and explanation.",
		InputSchema: object([]string{"id"}, map[string]interface{}{
			"id": str("Content id"),
		}),
	}, handlers.GetContent)

	server.AddTool(mcp.Tool{
		Name:        "toggle_content_favorite",
		Description: "Mark or unmark a devotional item as a favorite.",
		InputSchema: object([]string{"id"}, map[string]interface{}{
			"id": str("Content id"),
		}),
	}, handlers.ToggleContentFavorite)

	// Guidance
	server.AddTool(mcp.Tool{
		Name:        "recommend_content",
		Description: "Recommend devotional content for how the user is feeling. Returns ranked items and a composed reply in the requested tone.",
		InputSchema: object(nil, map[string]interface{}{
			"mood":    str("Short mood label, e.g. sad, anxious, thankful"),
			"concern": str("Short concern label, e.g. loss, work, health"),
			"tone":    str("Reply tone: encouraging, direct, or gentle"),
			"message": str("Optional free-text message from the user, used when mood and concern match nothing"),
		}),
	}, handlers.RecommendContent)

	// Reading plans
	planID := map[string]interface{}{"plan_id": str("Reading plan id")}

	server.AddTool(mcp.Tool{
		Name:        "list_plans",
		Description: "List available reading plans with each plan's progress state.",
		InputSchema: object(nil, map[string]interface{}{}),
	}, handlers.ListPlans)

	server.AddTool(mcp.Tool{
		Name:        "start_plan",
		Description: "Start a reading plan at day 1. Fails if already started unless restart is true.",
		InputSchema: object([]string{"plan_id"}, map[string]interface{}{
			"plan_id": str("Reading plan id"),
			"restart": boolean("Reset existing progress instead of failing"),
		}),
	}, handlers.StartPlan)

	server.AddTool(mcp.Tool{
		Name:        "current_plan_day",
		Description: "Get today's reading for a started plan, with its content.",
		InputSchema: object([]string{"plan_id"}, planID),
	}, handlers.CurrentPlanDay)

	server.AddTool(mcp.Tool{
		Name:        "complete_plan_day",
		Description: "Mark a plan day done. Days must be completed in order.",
		InputSchema: object([]string{"plan_id", "day"}, map[string]interface{}{
			"plan_id": str("Reading plan id"),
			"day":     map[string]interface{}{"type": "number", "description": "Day index to complete (must be the current day)"},
		}),
	}, handlers.CompletePlanDay)

	server.AddTool(mcp.Tool{
		Name:        "restart_plan",
		Description: "Reset a reading plan to day 1, clearing completions.",
		InputSchema: object([]string{"plan_id"}, planID),
	}, handlers.RestartPlan)

	server.AddTool(mcp.Tool{
		Name:        "plan_status",
		Description: "Get progress and streaks for a reading plan.",
		InputSchema: object([]string{"plan_id"}, planID),
	}, handlers.PlanStatus)

	// Journal
	server.AddTool(mcp.Tool{
		Name:        "create_journal_entry",
		Description: "Write a journal entry, optionally tagged with a category and linked to a devotional item.",
		InputSchema: object([]string{"body"}, map[string]interface{}{
			"body":     str("Entry text"),
			"category": category("Optional category tag"),
			"link":     str("Optional content id to link"),
		}),
	}, handlers.CreateJournalEntry)

	server.AddTool(mcp.Tool{
		Name:        "update_journal_entry",
		Description: "Edit a journal entry's body and/or category. Omitted fields are unchanged.",
		InputSchema: object([]string{"id"}, map[string]interface{}{
			"id":             str("Entry id"),
			"body":           str("New body"),
			"category":       category("New category tag"),
			"clear_category": boolean("Remove the category tag"),
		}),
	}, handlers.UpdateJournalEntry)

	server.AddTool(mcp.Tool{
		Name:        "delete_journal_entry",
		Description: "Permanently delete a journal entry.",
		InputSchema: object([]string{"id"}, map[string]interface{}{
			"id": str("Entry id"),
		}),
	}, handlers.DeleteJournalEntry)

	server.AddTool(mcp.Tool{
		Name:        "toggle_journal_favorite",
		Description: "Mark or unmark a journal entry as a favorite.",
		InputSchema: object([]string{"id"}, map[string]interface{}{
			"id": str("Entry id"),
		}),
	}, handlers.ToggleJournalFavorite)

	server.AddTool(mcp.Tool{
		Name:        "list_journal_entries",
		Description: "List journal entries, most recent first.",
		InputSchema: object(nil, map[string]interface{}{
			"category":  category("Only entries with this category"),
			"favorites": boolean("Only favorite entries"),
			"query":     str("Only entries whose body contains this text"),
		}),
	}, handlers.ListJournalEntries)

	server.AddTool(mcp.Tool{
		Name:        "journal_stats",
		Description: "Count journal entries per category, plus favorites and untagged entries.",
		InputSchema: object(nil, map[string]interface{}{}),
	}, handlers.JournalStats)

	return handlers
}
