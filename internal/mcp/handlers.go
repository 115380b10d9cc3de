// ABOUTME: MCP tool handler implementations for the devotional server
// ABOUTME: Engine errors become tool errors carrying a gentle, user-facing message
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/journal"
	"github.com/harper/devotional/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	app *app.App
}

// NewHandlers creates handlers over an App
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handlers) engineError(tool string, err error) (*mcp.CallToolResult, error) {
	h.app.Logger.Debug("tool failed", "tool", tool, "err", err)
	return mcp.NewToolResultError(app.FriendlyMessage(err)), nil
}

func optionalCategory(request mcp.CallToolRequest) (*models.Category, error) {
	raw := strings.TrimSpace(request.GetString("category", ""))
	if raw == "" {
		return nil, nil
	}
	c, err := models.ParseCategory(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContent handles the list_content tool
func (h *Handlers) ListContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := optionalCategory(request)
	if err != nil {
		return h.engineError("list_content", err)
	}

	var items []models.ContentItem
	switch {
	case cat != nil:
		items = h.app.Catalog.ListByCategory(*cat)
	default:
		items = h.app.Catalog.All()
	}

	if request.GetBool("favorites", false) {
		filtered := items[:0:0]
		for _, it := range items {
			if it.IsFavorite() {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	return jsonResult(map[string]interface{}{"items": items, "count": len(items)})
}

// GetContent handles the get_content tool
func (h *Handlers) GetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	item, err := h.app.Catalog.Get(id)
	if err != nil {
		return h.engineError("get_content", err)
	}
	return jsonResult(item)
}

// ToggleContentFavorite handles the toggle_content_favorite tool
func (h *Handlers) ToggleContentFavorite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	item, err := h.app.Catalog.ToggleFavorite(id)
	if err != nil {
		return h.engineError("toggle_content_favorite", err)
	}
	return jsonResult(item)
}

// RecommendContent handles the recommend_content tool
func (h *Handlers) RecommendContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile := models.UserProfile{
		Mood:    request.GetString("mood", ""),
		Concern: request.GetString("concern", ""),
		Tone:    request.GetString("tone", ""),
	}

	reply, err := h.app.NewSession().Ask(ctx, profile, request.GetString("message", ""))
	if err != nil {
		return h.engineError("recommend_content", err)
	}

	return jsonResult(map[string]interface{}{
		"reply":           reply.Message.Text,
		"recommendations": reply.Result.Recommendations,
		"matched":         reply.Result.Matched,
		"fallback":        reply.Result.Fallback,
		"rephrased":       reply.Rephrased,
	})
}

type planSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Days        int              `json:"days"`
	State       models.PlanState `json:"state"`
	CurrentDay  int              `json:"current_day"`
}

// ListPlans handles the list_plans tool
func (h *Handlers) ListPlans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []planSummary
	for _, p := range h.app.Plans.Plans() {
		progress, err := h.app.Plans.Progress(p.ID)
		if err != nil {
			return h.engineError("list_plans", err)
		}
		out = append(out, planSummary{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Days:        p.Len(),
			State:       progress.State,
			CurrentDay:  progress.CurrentDay,
		})
	}
	return jsonResult(map[string]interface{}{"plans": out})
}

// StartPlan handles the start_plan tool
func (h *Handlers) StartPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := request.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id argument is required and must be a string"), nil
	}
	progress, err := h.app.Plans.Start(planID, request.GetBool("restart", false))
	if err != nil {
		return h.engineError("start_plan", err)
	}
	return jsonResult(progress)
}

// CurrentPlanDay handles the current_plan_day tool
func (h *Handlers) CurrentPlanDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := request.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id argument is required and must be a string"), nil
	}
	day, err := h.app.Plans.CurrentDay(planID)
	if err != nil {
		return h.engineError("current_plan_day", err)
	}
	items, err := h.app.DayContent(day)
	if err != nil {
		return h.engineError("current_plan_day", err)
	}
	return jsonResult(map[string]interface{}{"day": day, "content": items})
}

// CompletePlanDay handles the complete_plan_day tool
func (h *Handlers) CompletePlanDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := request.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id argument is required and must be a string"), nil
	}
	day, err := request.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day argument is required and must be a number"), nil
	}

	progress, err := h.app.Plans.CompleteDay(planID, day)
	if err != nil {
		return h.engineError("complete_plan_day", err)
	}
	streak, err := h.app.Plans.CurrentStreak(planID)
	if err != nil {
		return h.engineError("complete_plan_day", err)
	}
	return jsonResult(map[string]interface{}{"progress": progress, "current_streak": streak})
}

// RestartPlan handles the restart_plan tool
func (h *Handlers) RestartPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := request.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id argument is required and must be a string"), nil
	}
	progress, err := h.app.Plans.Restart(planID)
	if err != nil {
		return h.engineError("restart_plan", err)
	}
	return jsonResult(progress)
}

// PlanStatus handles the plan_status tool
func (h *Handlers) PlanStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := request.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id argument is required and must be a string"), nil
	}
	status, err := h.app.Plans.Status(planID)
	if err != nil {
		return h.engineError("plan_status", err)
	}
	return jsonResult(status)
}

// CreateJournalEntry handles the create_journal_entry tool
func (h *Handlers) CreateJournalEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := request.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError("body argument is required and must be a string"), nil
	}
	cat, err := optionalCategory(request)
	if err != nil {
		return h.engineError("create_journal_entry", err)
	}
	entry, err := h.app.Journal.Create(body, cat, request.GetString("link", ""))
	if err != nil {
		return h.engineError("create_journal_entry", err)
	}
	return jsonResult(entry)
}

// UpdateJournalEntry handles the update_journal_entry tool
func (h *Handlers) UpdateJournalEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	var body *string
	if args := request.GetArguments(); args != nil {
		if v, ok := args["body"].(string); ok {
			body = &v
		}
	}
	cat, err := optionalCategory(request)
	if err != nil {
		return h.engineError("update_journal_entry", err)
	}

	entry, err := h.app.Journal.Update(id, body, cat)
	if err != nil {
		return h.engineError("update_journal_entry", err)
	}
	if request.GetBool("clear_category", false) {
		entry, err = h.app.Journal.ClearCategory(id)
		if err != nil {
			return h.engineError("update_journal_entry", err)
		}
	}
	return jsonResult(entry)
}

// DeleteJournalEntry handles the delete_journal_entry tool
func (h *Handlers) DeleteJournalEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	if err := h.app.Journal.Delete(id); err != nil {
		return h.engineError("delete_journal_entry", err)
	}
	return jsonResult(map[string]interface{}{"deleted": id})
}

// ToggleJournalFavorite handles the toggle_journal_favorite tool
func (h *Handlers) ToggleJournalFavorite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	entry, err := h.app.Journal.ToggleFavorite(id)
	if err != nil {
		return h.engineError("toggle_journal_favorite", err)
	}
	return jsonResult(entry)
}

// ListJournalEntries handles the list_journal_entries tool
func (h *Handlers) ListJournalEntries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := optionalCategory(request)
	if err != nil {
		return h.engineError("list_journal_entries", err)
	}
	entries, err := h.app.Journal.List(journal.Filter{
		Category:     cat,
		FavoriteOnly: request.GetBool("favorites", false),
		Query:        request.GetString("query", ""),
	})
	if err != nil {
		return h.engineError("list_journal_entries", err)
	}
	return jsonResult(map[string]interface{}{"entries": entries, "count": len(entries)})
}

// JournalStats handles the journal_stats tool
func (h *Handlers) JournalStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.app.Journal.Stats()
	if err != nil {
		return h.engineError("journal_stats", err)
	}
	return jsonResult(stats)
}
