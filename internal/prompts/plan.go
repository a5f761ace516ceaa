// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// PlanPrompt handles the scout-plan MCP prompt. It guides the AI
// through the assess → research → finalize loop for one planning
// session.
type PlanPrompt struct{}

// NewPlanPrompt creates a PlanPrompt.
func NewPlanPrompt() *PlanPrompt {
	return &PlanPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *PlanPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("scout-plan",
		mcp.WithPromptDescription(
			"Plan a recommendation with confidence scoring and automatic "+
				"research. Assesses confidence in the current direction, and when "+
				"it is low, runs rate-limited external research to firm it up "+
				"before finalizing.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Planning session identifier (reuse it across the whole session)"),
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What is being planned or recommended"),
		),
	)
}

// Handle processes the scout-plan prompt request.
func (p *PlanPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := "planning-session"
	topic := "the current task"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["session_id"]; ok && v != "" {
			sessionID = v
		}
		if v, ok := args["topic"]; ok && v != "" {
			topic = v
		}
	}

	instructions := fmt.Sprintf(`You are planning: %s

Work the confidence loop with session id %q:

1. Call confidence_assess with your current factor estimates
   (research_depth, stack_match, architecture_simplicity,
   knowledge_recency).
2. If the score is below the threshold, call research_trigger with the
   same factors, a focused query, and optional focus_areas. Reuse the
   session id — it is the unit of rate-limit accounting.
3. Incorporate the returned references and re-read the new confidence.
   A result with "triggered": false means research was denied or
   degraded; proceed with the confidence you have — never block on it.
4. Check research_budget before long loops; when the budget is
   exhausted, finalize with current confidence or ask the user to start
   a new session.

Finalize with a recommendation, its confidence, and the external
references that back it.`, topic, sessionID)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Confidence-driven planning: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
