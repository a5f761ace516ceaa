package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planscout/planscout/internal/history"
)

// HistoryTool handles the research_history MCP tool: recent research
// attempts for one session, from the SQLite audit log.
type HistoryTool struct {
	store *history.Store
}

// NewHistoryTool creates a HistoryTool. store may be nil when the
// history subsystem failed to initialize; the tool then reports that
// instead of erroring at the transport level.
func NewHistoryTool(store *history.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for research_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("research_history",
		mcp.WithDescription(
			"List recent auto-research attempts for a session: what was asked, "+
				"whether research ran, and how confidence moved.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Planning session identifier"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum attempts to return (default 20)"),
		),
	)
}

// Handle processes the research_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError("research history is unavailable (storage failed to initialize)"), nil
	}

	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	attempts, err := t.store.BySession(ctx, sessionID, intArg(req, "limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading history: %v", err)), nil
	}
	if len(attempts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No research attempts recorded for session %q", sessionID)), nil
	}

	return jsonResult(attempts)
}
