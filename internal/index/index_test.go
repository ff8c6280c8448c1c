package index

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/vault-engine/pkg/types"
)

// --- test helpers ---

func newNote(id string, tags ...string) *types.Note {
	return &types.Note{ID: id, Title: id, Tags: tags}
}

// mustAdd admits notes, failing the test on any error.
func mustAdd(t *testing.T, s *Store, notes ...*types.Note) {
	t.Helper()
	for _, n := range notes {
		if err := s.AddDocument(n); err != nil {
			t.Fatal(err)
		}
	}
}

// checkInverse verifies the mutual-inverse invariant between related
// lists and backlink sets.
func checkInverse(t *testing.T, s *Store) {
	t.Helper()
	for id, note := range s.files {
		for _, target := range note.Related {
			if !contains(s.backlinks[target], id) {
				t.Errorf("edge %s -> %s has no backlink entry", id, target)
			}
		}
	}
	for target, sources := range s.backlinks {
		for _, source := range sources {
			src, ok := s.files[source]
			if !ok || !contains(src.Related, target) {
				t.Errorf("backlink %s <- %s has no related entry", target, source)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// --- admission tests ---

func TestAddDocumentRejectsDuplicate(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("a.md"))

	err := s.AddDocument(newNote("a.md"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAddDocumentRejectsEmptyID(t *testing.T) {
	s := New()
	if err := s.AddDocument(&types.Note{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestAddDocumentNormalizesLabels(t *testing.T) {
	s := New()
	mustAdd(t, s, &types.Note{
		ID:     "a.md",
		Tags:   []string{" Math ", "math", "", "CALCULUS"},
		Topics: []string{"Limits", "limits"},
	})

	note, _ := s.Get("a.md")
	if !reflect.DeepEqual(note.Tags, []string{"math", "calculus"}) {
		t.Errorf("tags = %v", note.Tags)
	}
	if !reflect.DeepEqual(note.Topics, []string{"limits"}) {
		t.Errorf("topics = %v", note.Topics)
	}
}

// --- link tests ---

func TestAddLinkUnknownID(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("a.md"))

	if err := s.AddLink("a.md", "missing.md"); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("expected ErrUnknownID, got %v", err)
	}
	if err := s.AddLink("missing.md", "a.md"); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("expected ErrUnknownID, got %v", err)
	}
}

func TestAddLinkIdempotent(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("a.md"), newNote("b.md"))

	for i := 0; i < 2; i++ {
		if err := s.AddLink("a.md", "b.md"); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := s.Get("a.md")
	if !reflect.DeepEqual(a.Related, []string{"b.md"}) {
		t.Errorf("related = %v", a.Related)
	}
	if got := s.Backlinks("b.md"); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("backlinks = %v", got)
	}
	checkInverse(t, s)
}

func TestAddLinkSelfIsNoop(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("a.md"))

	if err := s.AddLink("a.md", "a.md"); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Get("a.md")
	if len(a.Related) != 0 {
		t.Errorf("self link recorded: %v", a.Related)
	}
}

func TestBidirectionalConsistency(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("a.md"), newNote("b.md"), newNote("c.md"))

	for _, edge := range [][2]string{
		{"a.md", "b.md"}, {"a.md", "c.md"}, {"b.md", "c.md"}, {"c.md", "a.md"},
	} {
		if err := s.AddLink(edge[0], edge[1]); err != nil {
			t.Fatal(err)
		}
		checkInverse(t, s)
	}
}

// --- snapshot tests ---

func TestRecordsSortedSnapshot(t *testing.T) {
	s := New()
	mustAdd(t, s, newNote("c.md"), newNote("a.md"), newNote("b.md"))

	records := s.Records()
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a.md", "b.md", "c.md"}) {
		t.Errorf("ids = %v", ids)
	}

	// A later admission must not appear in the earlier snapshot.
	mustAdd(t, s, newNote("d.md"))
	if len(records) != 3 {
		t.Errorf("snapshot grew to %d records", len(records))
	}
}

// --- persistence tests ---

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vault", "index.json")

	s := New()
	mustAdd(t, s,
		&types.Note{ID: "a.md", Title: "A", Tags: []string{"math"}, Topics: []string{"limits"}, Summary: "about a"},
		&types.Note{ID: "b.md", Title: "B", Tags: []string{"math", "geometry"}},
	)
	if err := s.AddLink("a.md", "b.md"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded := Load(path)
	if !reflect.DeepEqual(loaded.files, s.files) {
		t.Errorf("files differ after round trip:\n%#v\n%#v", loaded.files, s.files)
	}
	if !reflect.DeepEqual(loaded.backlinks["b.md"], []string{"a.md"}) {
		t.Errorf("backlinks = %v", loaded.backlinks["b.md"])
	}
	checkInverse(t, loaded)
}

func TestSaveWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	s := New()
	mustAdd(t, s, newNote("a.md", "math"), newNote("b.md"))
	if err := s.AddLink("a.md", "b.md"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var disk map[string]json.RawMessage
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"files", "backlinks"} {
		if _, ok := disk[key]; !ok {
			t.Errorf("persisted index missing %q", key)
		}
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.json"))
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d notes", s.Len())
	}
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(path)
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d notes", s.Len())
	}

	// Prior state on disk is untouched by a degraded load.
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{not json" {
		t.Errorf("load modified the corrupt file: %q, %v", data, err)
	}
}

func TestLoadRebuildsMissingBacklinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	raw := `{"files": {
		"a.md": {"title": "A", "tags": ["x"], "topics": [], "related": ["b.md"]},
		"b.md": {"title": "B", "tags": [], "topics": [], "related": []}
	}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(path)
	if got := s.Backlinks("b.md"); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("backlinks = %v", got)
	}
	checkInverse(t, s)
}

func TestLoadReplaysEdgesInSortedOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	s := New()
	mustAdd(t, s, newNote("a.md"), newNote("b.md"), newNote("c.md"))

	// c links b before a does; a reload replays linking notes in sorted
	// ID order, so the backlink list comes back deterministic.
	if err := s.AddLink("c.md", "b.md"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLink("a.md", "b.md"); err != nil {
		t.Fatal(err)
	}
	if got := s.Backlinks("b.md"); !reflect.DeepEqual(got, []string{"c.md", "a.md"}) {
		t.Fatalf("backlinks before save = %v", got)
	}

	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded := Load(path)
	if got := loaded.Backlinks("b.md"); !reflect.DeepEqual(got, []string{"a.md", "c.md"}) {
		t.Errorf("backlinks after load = %v", got)
	}
	checkInverse(t, loaded)
}

func TestLoadDropsStaleLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	raw := `{"files": {
		"a.md": {"title": "A", "tags": [], "topics": [], "related": ["gone.md"]}
	}, "backlinks": {"gone.md": ["a.md"]}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(path)
	a, _ := s.Get("a.md")
	if len(a.Related) != 0 {
		t.Errorf("stale link kept: %v", a.Related)
	}
	checkInverse(t, s)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")

	s := New()
	mustAdd(t, s, newNote("a.md"))
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, newNote("b.md"))
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	if Load(path).Len() != 2 {
		t.Error("second save not visible")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected files in index dir: %d", len(entries))
	}
}
