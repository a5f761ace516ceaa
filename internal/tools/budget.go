package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planscout/planscout/internal/ratelimit"
)

// BudgetTool handles the research_budget MCP tool: a read-only view of
// one session's remaining auto-research budget.
type BudgetTool struct {
	limiter     *ratelimit.Limiter
	maxTriggers int
}

// NewBudgetTool creates a BudgetTool.
func NewBudgetTool(limiter *ratelimit.Limiter, maxTriggers int) *BudgetTool {
	return &BudgetTool{limiter: limiter, maxTriggers: maxTriggers}
}

// Definition returns the MCP tool definition for research_budget.
func (t *BudgetTool) Definition() mcp.Tool {
	return mcp.NewTool("research_budget",
		mcp.WithDescription(
			"Report how much of the session's auto-research budget is used and "+
				"whether another trigger is currently allowed.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Planning session identifier"),
		),
	)
}

// Handle processes the research_budget tool call.
func (t *BudgetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	used := t.limiter.Count(sessionID)
	allowed := t.limiter.Check(sessionID, t.maxTriggers)

	remaining := t.maxTriggers - used
	if remaining < 0 {
		remaining = 0
	}

	return jsonResult(map[string]any{
		"session_id": sessionID,
		"used":       used,
		"max":        t.maxTriggers,
		"remaining":  remaining,
		"allowed":    allowed,
	})
}

// ─── BudgetResetTool ────────────────────────────────────────────────────────

// BudgetResetTool handles the research_budget_reset MCP tool: an
// explicit session restart that forgets the session's counter.
type BudgetResetTool struct {
	limiter *ratelimit.Limiter
}

// NewBudgetResetTool creates a BudgetResetTool.
func NewBudgetResetTool(limiter *ratelimit.Limiter) *BudgetResetTool {
	return &BudgetResetTool{limiter: limiter}
}

// Definition returns the MCP tool definition for research_budget_reset.
func (t *BudgetResetTool) Definition() mcp.Tool {
	return mcp.NewTool("research_budget_reset",
		mcp.WithDescription(
			"Reset one session's auto-research budget. Use when a planning "+
				"session is explicitly restarted.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Planning session identifier to reset"),
		),
	)
}

// Handle processes the research_budget_reset tool call.
func (t *BudgetResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	t.limiter.Reset(sessionID)
	return mcp.NewToolResultText(fmt.Sprintf("Budget for session %q reset", sessionID)), nil
}
