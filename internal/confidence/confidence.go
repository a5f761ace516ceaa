// Package confidence scores how certain the system is in a planning
// recommendation, on a 0-100 scale with accompanying reasoning.
//
// The score is a weighted blend of factor dimensions. The auto-research
// trigger treats the scorer as an opaque collaborator: it calls it once
// before research and once after, with the gathered findings as added
// context.
package confidence

import (
	"fmt"
	"strings"
)

// Depth describes how much research backs the recommendation.
type Depth string

const (
	DepthNone   Depth = "none"
	DepthLow    Depth = "low"
	DepthMedium Depth = "medium"
	DepthHigh   Depth = "high"
)

// Factors is the structured input to a Scorer. Numeric factors are
// 0-100 quality scores supplied by the caller.
type Factors struct {
	// ResearchDepth is how much external research backs the
	// recommendation so far.
	ResearchDepth Depth `json:"research_depth"`
	// StackMatch is how well the recommended stack matches the
	// project's existing technology.
	StackMatch int `json:"stack_match"`
	// ArchitectureSimplicity is how simple the proposed architecture
	// is relative to the problem.
	ArchitectureSimplicity int `json:"architecture_simplicity"`
	// KnowledgeRecency is how current the underlying knowledge is.
	KnowledgeRecency int `json:"knowledge_recency"`
	// Context carries optional extra evidence, e.g. reference strings
	// from a completed research pass.
	Context []string `json:"context,omitempty"`
}

// Result is a 0-100 confidence percentage with reasoning text.
type Result struct {
	Percentage int    `json:"percentage"`
	Reasoning  string `json:"reasoning"`
}

// Scorer computes a confidence Result from Factors.
type Scorer interface {
	Score(f Factors) Result
}

// dimension weights, mirroring the relative importance each factor has
// on whether a recommendation can be trusted without more research.
const (
	weightDepth      = 9
	weightStackMatch = 10
	weightArch       = 6
	weightRecency    = 7
)

// depthScore maps a research depth level onto the 0-100 scale.
var depthScore = map[Depth]int{
	DepthNone:   20,
	DepthLow:    45,
	DepthMedium: 70,
	DepthHigh:   95,
}

// Heuristic is the default Scorer: a deterministic weighted average of
// the factor dimensions, with a small bonus per piece of supporting
// context (capped so context alone can never saturate the score).
type Heuristic struct{}

// NewHeuristic creates the default scorer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Score implements Scorer.
func (h *Heuristic) Score(f Factors) Result {
	ds, ok := depthScore[f.ResearchDepth]
	if !ok {
		ds = depthScore[DepthNone]
	}

	totalWeight := weightDepth + weightStackMatch + weightArch + weightRecency
	weightedSum := ds*weightDepth +
		clamp(f.StackMatch)*weightStackMatch +
		clamp(f.ArchitectureSimplicity)*weightArch +
		clamp(f.KnowledgeRecency)*weightRecency

	pct := weightedSum / totalWeight

	// Each piece of supporting evidence is worth 2 points, up to 10.
	bonus := len(f.Context) * 2
	if bonus > 10 {
		bonus = 10
	}
	pct = clamp(pct + bonus)

	return Result{
		Percentage: pct,
		Reasoning:  h.reason(f, ds, pct),
	}
}

func (h *Heuristic) reason(f Factors, depthPts, pct int) string {
	var parts []string

	depth := f.ResearchDepth
	if depth == "" {
		depth = DepthNone
	}
	parts = append(parts, fmt.Sprintf("research depth %s (%d/100)", depth, depthPts))
	parts = append(parts, fmt.Sprintf("stack match %d/100", clamp(f.StackMatch)))
	parts = append(parts, fmt.Sprintf("architecture simplicity %d/100", clamp(f.ArchitectureSimplicity)))
	parts = append(parts, fmt.Sprintf("knowledge recency %d/100", clamp(f.KnowledgeRecency)))
	if n := len(f.Context); n > 0 {
		parts = append(parts, fmt.Sprintf("%d supporting reference(s)", n))
	}

	return fmt.Sprintf("Confidence %d%%: %s.", pct, strings.Join(parts, ", "))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
