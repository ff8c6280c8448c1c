package link

import (
	"math"
	"reflect"
	"testing"

	"github.com/pdiddy/vault-engine/internal/index"
	"github.com/pdiddy/vault-engine/pkg/types"
)

func TestRankThresholdAndOrder(t *testing.T) {
	a := note("a.md", []string{"math", "calculus"}, nil)
	b := note("b.md", []string{"math", "geometry"}, nil)
	c := note("c.md", []string{"music"}, nil)

	got := Rank(a, []*types.Note{c, b}, 0.3, 5)
	if len(got) != 1 || got[0].ID != "b.md" {
		t.Fatalf("ranked = %v", got)
	}
	if math.Abs(got[0].Score-1.0/3.0) > 1e-9 {
		t.Errorf("score = %v, want 1/3", got[0].Score)
	}
}

func TestRankTiesBreakByID(t *testing.T) {
	a := note("a.md", []string{"math"}, nil)
	// Both candidates score identically; output must be ID-ascending
	// regardless of input order.
	x := note("x.md", []string{"math"}, nil)
	y := note("y.md", []string{"math"}, nil)

	first := Rank(a, []*types.Note{y, x}, 0.1, 5)
	second := Rank(a, []*types.Note{x, y}, 0.1, 5)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ordering depends on input order: %v vs %v", first, second)
	}
	if first[0].ID != "x.md" || first[1].ID != "y.md" {
		t.Errorf("tie break wrong: %v", first)
	}
}

func TestRankTruncates(t *testing.T) {
	a := note("a.md", []string{"math"}, nil)
	candidates := []*types.Note{
		note("b.md", []string{"math"}, nil),
		note("c.md", []string{"math"}, nil),
		note("d.md", []string{"math"}, nil),
	}

	if got := Rank(a, candidates, 0.1, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	// Non-positive maxResults means no limit.
	if got := Rank(a, candidates, 0.1, 0); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestRankSkipsSelf(t *testing.T) {
	a := note("a.md", []string{"math"}, nil)
	if got := Rank(a, []*types.Note{a}, 0.0, 5); len(got) != 0 {
		t.Errorf("note ranked against itself: %v", got)
	}
}

func TestGenerateDefaultPolicy(t *testing.T) {
	store := index.New()
	for _, n := range []*types.Note{
		{ID: "a.md", Tags: []string{"math", "calculus"}},
		{ID: "b.md", Tags: []string{"math", "geometry"}},
		{ID: "c.md", Tags: []string{"music"}},
	} {
		if err := store.AddDocument(n); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := store.Get("a.md")
	accepted, err := Generate(store, a, types.LinkerConfig{MinConfidence: 0.3, MaxResults: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(accepted) != 1 || accepted[0].ID != "b.md" {
		t.Fatalf("accepted = %v", accepted)
	}

	// New note links out; target gains only the backlink.
	if !reflect.DeepEqual(a.Related, []string{"b.md"}) {
		t.Errorf("a.related = %v", a.Related)
	}
	b, _ := store.Get("b.md")
	if len(b.Related) != 0 {
		t.Errorf("target gained outbound edge: %v", b.Related)
	}
	if got := store.Backlinks("b.md"); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("backlinks(b) = %v", got)
	}
	if got := store.Backlinks("a.md"); len(got) != 0 {
		t.Errorf("backlinks(a) = %v", got)
	}
}

func TestGenerateMutual(t *testing.T) {
	store := index.New()
	for _, n := range []*types.Note{
		{ID: "a.md", Tags: []string{"math"}},
		{ID: "b.md", Tags: []string{"math"}},
	} {
		if err := store.AddDocument(n); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := store.Get("a.md")
	if _, err := Generate(store, a, types.LinkerConfig{MinConfidence: 0.3, MaxResults: 5, Mutual: true}); err != nil {
		t.Fatal(err)
	}

	b, _ := store.Get("b.md")
	if !reflect.DeepEqual(b.Related, []string{"a.md"}) {
		t.Errorf("b.related = %v", b.Related)
	}
	if got := store.Backlinks("a.md"); !reflect.DeepEqual(got, []string{"b.md"}) {
		t.Errorf("backlinks(a) = %v", got)
	}
}
