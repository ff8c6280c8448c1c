package link

import (
	"math"
	"testing"

	"github.com/pdiddy/vault-engine/pkg/types"
)

func note(id string, tags []string, topics []string) *types.Note {
	return &types.Note{ID: id, Tags: tags, Topics: topics}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreJaccard(t *testing.T) {
	a := note("a.md", []string{"math", "calculus"}, nil)
	b := note("b.md", []string{"math", "geometry"}, nil)

	// Intersection {math}, union {math, calculus, geometry}.
	if got := Score(a, b); !almostEqual(got, 1.0/3.0) {
		t.Errorf("score = %v, want 1/3", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	a := note("a.md", []string{"go", "testing"}, []string{"tooling"})
	b := note("b.md", []string{"go"}, []string{"benchmarks", "tooling"})

	if Score(a, b) != Score(b, a) {
		t.Errorf("score not symmetric: %v vs %v", Score(a, b), Score(b, a))
	}
}

func TestScoreSelf(t *testing.T) {
	a := note("a.md", []string{"math"}, nil)
	if got := Score(a, a); got != 1.0 {
		t.Errorf("score(a,a) = %v, want 1", got)
	}
}

func TestScoreBothEmpty(t *testing.T) {
	a := note("a.md", nil, nil)
	b := note("b.md", nil, nil)
	if got := Score(a, b); got != 0 {
		t.Errorf("score of two label-less notes = %v, want 0", got)
	}
}

func TestScoreDisjoint(t *testing.T) {
	a := note("a.md", []string{"math"}, nil)
	c := note("c.md", []string{"music"}, nil)
	if got := Score(a, c); got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestScoreMergesTagsAndTopics(t *testing.T) {
	// The same label counts once whether it arrives as tag or topic.
	a := note("a.md", []string{"math"}, nil)
	b := note("b.md", nil, []string{"math"})
	if got := Score(a, b); got != 1.0 {
		t.Errorf("score = %v, want 1", got)
	}
}
