package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/planscout/planscout/internal/confidence"
	"github.com/planscout/planscout/internal/history"
	"github.com/planscout/planscout/internal/providers"
	"github.com/planscout/planscout/internal/ratelimit"
	"github.com/planscout/planscout/internal/research"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// stubProvider always succeeds with one finding.
type stubProvider struct{ name string }

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) Lookup(ctx context.Context, query string, focus []string) (*providers.Finding, error) {
	return &providers.Finding{
		Provider:  p.name,
		Reference: p.name + ": ref",
		Title:     "t",
		Content:   "c",
	}, nil
}

func newTestTrigger(limiter *ratelimit.Limiter) *research.Trigger {
	return research.New(
		limiter,
		confidence.NewHeuristic(),
		[]providers.Provider{stubProvider{name: "docs"}, stubProvider{name: "websearch"}},
		nil,
		zap.NewNop(),
		research.Options{},
	)
}

// ─── ResearchTool ────────────────────────────────────────────────────────────

func TestResearchTool_Definition(t *testing.T) {
	tool := NewResearchTool(newTestTrigger(ratelimit.New(0)), confidence.NewHeuristic())
	def := tool.Definition()

	if def.Name != "research_trigger" {
		t.Errorf("tool name = %q, want research_trigger", def.Name)
	}
}

func TestResearchTool_RequiresSessionAndQuery(t *testing.T) {
	tool := NewResearchTool(newTestTrigger(ratelimit.New(0)), confidence.NewHeuristic())

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"query": "q"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("missing session_id accepted, want error result")
	}

	res, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("missing query accepted, want error result")
	}
}

func TestResearchTool_HighConfidenceSkipsResearch(t *testing.T) {
	limiter := ratelimit.New(0)
	tool := NewResearchTool(newTestTrigger(limiter), confidence.NewHeuristic())

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":              "s2",
		"query":                   "anything",
		"research_depth":          "high",
		"stack_match":             float64(95),
		"architecture_simplicity": float64(95),
		"knowledge_recency":       float64(95),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, `"triggered": false`) {
		t.Errorf("result %q, want triggered false", text)
	}
	if !strings.Contains(text, "threshold") {
		t.Errorf("result %q missing skip note", text)
	}
	if got := limiter.Count("s2"); got != 0 {
		t.Errorf("budget used = %d, want 0 when research is skipped", got)
	}
}

func TestResearchTool_LowConfidenceTriggersAndCounts(t *testing.T) {
	limiter := ratelimit.New(0)
	tool := NewResearchTool(newTestTrigger(limiter), confidence.NewHeuristic())

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"session_id":     "s1",
		"query":          "how to cache sessions",
		"focus_areas":    "redis, ttl",
		"research_depth": "none",
		"stack_match":    float64(40),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var got research.Result
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if !got.Triggered {
		t.Error("Triggered = false, want true")
	}
	if len(got.ExternalRefs) != 2 {
		t.Errorf("ExternalRefs = %v, want both sources", got.ExternalRefs)
	}
	if got := limiter.Count("s1"); got != 1 {
		t.Errorf("budget used = %d, want 1", got)
	}
}

// ─── AssessTool ──────────────────────────────────────────────────────────────

func TestAssessTool_ScoresFactors(t *testing.T) {
	tool := NewAssessTool(confidence.NewHeuristic())

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"research_depth": "medium",
		"stack_match":    float64(70),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var got confidence.Result
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got.Percentage <= 0 || got.Percentage > 100 {
		t.Errorf("Percentage = %d, want within (0,100]", got.Percentage)
	}
	if got.Reasoning == "" {
		t.Error("Reasoning is empty")
	}
}

// ─── BudgetTool / BudgetResetTool ────────────────────────────────────────────

func TestBudgetTool_ReportsUsage(t *testing.T) {
	limiter := ratelimit.New(0)
	limiter.Increment("s1")
	limiter.Increment("s1")

	tool := NewBudgetTool(limiter, 10)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var got struct {
		Used      int  `json:"used"`
		Max       int  `json:"max"`
		Remaining int  `json:"remaining"`
		Allowed   bool `json:"allowed"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got.Used != 2 || got.Max != 10 || got.Remaining != 8 || !got.Allowed {
		t.Errorf("budget = %+v, want 2/10 used, 8 remaining, allowed", got)
	}
}

func TestBudgetResetTool_Resets(t *testing.T) {
	limiter := ratelimit.New(0)
	limiter.Increment("s1")

	tool := NewBudgetResetTool(limiter)
	if _, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"})); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if got := limiter.Count("s1"); got != 0 {
		t.Errorf("Count after reset = %d, want 0", got)
	}
}

// ─── HistoryTool ─────────────────────────────────────────────────────────────

func TestHistoryTool_NilStoreReportsUnavailable(t *testing.T) {
	tool := NewHistoryTool(nil)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("nil store accepted, want error result")
	}
}

func TestHistoryTool_ListsAttempts(t *testing.T) {
	store, err := history.New(history.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rec := research.AttemptRecord{SessionID: "s1", Query: "q", Triggered: true, ConfidenceAfter: 80}
	if err := store.RecordAttempt(context.Background(), rec); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	tool := NewHistoryTool(store)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "s1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, `"query": "q"`) {
		t.Errorf("result %q missing recorded attempt", text)
	}
}
