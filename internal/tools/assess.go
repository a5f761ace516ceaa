package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planscout/planscout/internal/confidence"
)

// AssessTool handles the confidence_assess MCP tool: a pure scoring
// pass with no side effects and no rate-limit interaction.
type AssessTool struct {
	scorer confidence.Scorer
}

// NewAssessTool creates an AssessTool.
func NewAssessTool(scorer confidence.Scorer) *AssessTool {
	return &AssessTool{scorer: scorer}
}

// Definition returns the MCP tool definition for confidence_assess.
func (t *AssessTool) Definition() mcp.Tool {
	return mcp.NewTool("confidence_assess",
		mcp.WithDescription(
			"Score confidence (0-100, with reasoning) in a recommendation from "+
				"its factor dimensions. Pure computation — use research_trigger to "+
				"act on a low score.",
		),
		mcp.WithString("research_depth",
			mcp.Description("How much research backs the recommendation: none, low, medium, or high"),
		),
		mcp.WithNumber("stack_match",
			mcp.Description("0-100: how well the recommendation matches the project's stack"),
		),
		mcp.WithNumber("architecture_simplicity",
			mcp.Description("0-100: how simple the proposed architecture is"),
		),
		mcp.WithNumber("knowledge_recency",
			mcp.Description("0-100: how current the underlying knowledge is"),
		),
	)
}

// Handle processes the confidence_assess tool call.
func (t *AssessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.scorer.Score(factorsFromRequest(req)))
}
