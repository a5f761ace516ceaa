// Package tools implements the MCP tool handlers for planscout.
//
// Each tool is a small struct with its dependencies injected, exposing
// Definition() for registration and Handle() for execution. Tool
// errors are returned as MCP error results, never as Go errors — the
// protocol treats handler errors as transport failures.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planscout/planscout/internal/confidence"
	"github.com/planscout/planscout/internal/research"
)

// ResearchTool handles the research_trigger MCP tool: the full
// assess-and-maybe-research flow for one planning session.
type ResearchTool struct {
	trigger *research.Trigger
	scorer  confidence.Scorer
}

// NewResearchTool creates a ResearchTool.
func NewResearchTool(trigger *research.Trigger, scorer confidence.Scorer) *ResearchTool {
	return &ResearchTool{trigger: trigger, scorer: scorer}
}

// Definition returns the MCP tool definition for research_trigger.
func (t *ResearchTool) Definition() mcp.Tool {
	return mcp.NewTool("research_trigger",
		mcp.WithDescription(
			"Score confidence in the current recommendation and, when it falls "+
				"below the threshold, run a rate-limited, time-boxed research pass "+
				"to try to improve it. Never fails: when research is denied or "+
				"degrades, the original confidence is returned unchanged.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Planning session identifier (unit of rate-limit accounting)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text research question"),
		),
		mcp.WithString("focus_areas",
			mcp.Description("Comma-separated topics to narrow the research"),
		),
		mcp.WithString("research_depth",
			mcp.Description("How much research backs the recommendation so far: none, low, medium, or high"),
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

// Handle processes the research_trigger tool call.
func (t *ResearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	factors := factorsFromRequest(req)
	current := t.scorer.Score(factors)

	if !t.trigger.ShouldTrigger(current) {
		return jsonResult(map[string]any{
			"triggered":      false,
			"new_confidence": current.Percentage,
			"reasoning":      current.Reasoning,
			"external_refs":  []string{},
			"note":           "confidence already meets the threshold; no research needed",
		})
	}

	res := t.trigger.Run(ctx, sessionID, factors, current, query, listArg(req, "focus_areas"))
	return jsonResult(res)
}

// factorsFromRequest builds scorer inputs from the common factor
// arguments shared by research_trigger and confidence_assess.
func factorsFromRequest(req mcp.CallToolRequest) confidence.Factors {
	return confidence.Factors{
		ResearchDepth:          confidence.Depth(req.GetString("research_depth", string(confidence.DepthNone))),
		StackMatch:             intArg(req, "stack_match", 0),
		ArchitectureSimplicity: intArg(req, "architecture_simplicity", 0),
		KnowledgeRecency:       intArg(req, "knowledge_recency", 0),
	}
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
