package confidence

import (
	"strings"
	"testing"
)

func TestScore_HighFactorsScoreHigh(t *testing.T) {
	s := NewHeuristic()
	got := s.Score(Factors{
		ResearchDepth:          DepthHigh,
		StackMatch:             95,
		ArchitectureSimplicity: 90,
		KnowledgeRecency:       90,
	})

	if got.Percentage < 90 {
		t.Errorf("Percentage = %d, want >= 90", got.Percentage)
	}
	if got.Percentage > 100 {
		t.Errorf("Percentage = %d, want <= 100", got.Percentage)
	}
}

func TestScore_NoResearchScoresLow(t *testing.T) {
	s := NewHeuristic()
	got := s.Score(Factors{
		ResearchDepth:          DepthNone,
		StackMatch:             40,
		ArchitectureSimplicity: 50,
		KnowledgeRecency:       30,
	})

	if got.Percentage >= 90 {
		t.Errorf("Percentage = %d, want < 90", got.Percentage)
	}
}

func TestScore_ContextRaisesButCaps(t *testing.T) {
	s := NewHeuristic()
	base := Factors{
		ResearchDepth:          DepthMedium,
		StackMatch:             60,
		ArchitectureSimplicity: 60,
		KnowledgeRecency:       60,
	}

	without := s.Score(base)

	base.Context = []string{"ref-1", "ref-2"}
	with := s.Score(base)
	if with.Percentage != without.Percentage+4 {
		t.Errorf("two references added %d points, want 4",
			with.Percentage-without.Percentage)
	}

	// Bonus is capped at 10 regardless of how many references pile up.
	base.Context = make([]string, 50)
	many := s.Score(base)
	if many.Percentage != without.Percentage+10 {
		t.Errorf("fifty references added %d points, want 10",
			many.Percentage-without.Percentage)
	}
}

func TestScore_UnknownDepthTreatedAsNone(t *testing.T) {
	s := NewHeuristic()
	unknown := s.Score(Factors{ResearchDepth: Depth("bogus"), StackMatch: 50})
	none := s.Score(Factors{ResearchDepth: DepthNone, StackMatch: 50})

	if unknown.Percentage != none.Percentage {
		t.Errorf("unknown depth scored %d, none scored %d, want equal",
			unknown.Percentage, none.Percentage)
	}
}

func TestScore_OutOfRangeFactorsClamped(t *testing.T) {
	s := NewHeuristic()
	got := s.Score(Factors{
		ResearchDepth:          DepthHigh,
		StackMatch:             250,
		ArchitectureSimplicity: -40,
		KnowledgeRecency:       100,
	})

	if got.Percentage < 0 || got.Percentage > 100 {
		t.Errorf("Percentage = %d, want within [0,100]", got.Percentage)
	}
}

func TestScore_ReasoningNamesFactors(t *testing.T) {
	s := NewHeuristic()
	got := s.Score(Factors{
		ResearchDepth: DepthLow,
		StackMatch:    70,
		Context:       []string{"Context7: /vercel/next.js"},
	})

	for _, want := range []string{"research depth low", "stack match 70/100", "1 supporting reference"} {
		if !strings.Contains(got.Reasoning, want) {
			t.Errorf("Reasoning %q missing %q", got.Reasoning, want)
		}
	}
}
