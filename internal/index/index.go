// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains the vault's persistent link graph: a JSON-backed
// mapping from note ID to note metadata plus the derived backlink mapping.
// The two mappings are kept mutual inverses across every mutation.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/vault-engine/pkg/types"
)

// Sentinel errors for structural index failures. Callers match with
// errors.Is; the wrapped message carries the offending ID.
var (
	// ErrDuplicateID reports admission of an ID already in the index.
	ErrDuplicateID = errors.New("duplicate note id")

	// ErrUnknownID reports a reference to an ID not in the index.
	ErrUnknownID = errors.New("unknown note id")
)

// Store holds the in-memory vault index. Access is single-writer by
// contract: callers serialize mutating calls, and durability comes only
// from an explicit Save.
type Store struct {
	files     map[string]*types.Note
	backlinks map[string][]string
}

// New returns an empty index.
func New() *Store {
	return &Store{
		files:     make(map[string]*types.Note),
		backlinks: make(map[string][]string),
	}
}

// indexFile is the persisted JSON layout. The top-level shape is a
// stable contract consumed by external tooling.
type indexFile struct {
	Files     map[string]*fileEntry `json:"files"`
	Backlinks map[string][]string   `json:"backlinks"`
}

// fileEntry is one persisted note record. The map key carries the ID.
type fileEntry struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Topics  []string `json:"topics"`
	Summary string   `json:"summary,omitempty"`
	Created string   `json:"created,omitempty"`
	Source  string   `json:"source,omitempty"`
	Related []string `json:"related"`
}

// Load reads the index at path. A missing or corrupt file degrades to an
// empty index with a warning on stderr: an empty vault is a valid
// starting point, and prior state on disk is never touched by Load.
//
// An index persisted without a backlinks object (or with one that has
// drifted) is tolerated: backlinks are rebuilt from the related lists.
func Load(path string) *Store {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read index %s: %v (starting empty)\n", path, err)
		}
		return s
	}

	var disk indexFile
	if err := json.Unmarshal(data, &disk); err != nil {
		fmt.Fprintf(os.Stderr, "warning: corrupt index %s: %v (starting empty)\n", path, err)
		return s
	}

	for id, entry := range disk.Files {
		if id == "" {
			continue
		}
		s.files[id] = &types.Note{
			ID:      id,
			Title:   entry.Title,
			Tags:    normalizeLabels(entry.Tags),
			Topics:  normalizeLabels(entry.Topics),
			Summary: entry.Summary,
			Created: entry.Created,
			Source:  entry.Source,
			Related: nil,
		}
	}

	// Replay the persisted edges through AddLink so the backlink mapping
	// is reconstructed rather than trusted. Files are replayed in sorted
	// ID order so backlink order is stable across load cycles. Edges to
	// unknown IDs are dropped with a warning.
	ids := make([]string, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, target := range disk.Files[id].Related {
			if err := s.AddLink(id, target); err != nil {
				fmt.Fprintf(os.Stderr, "warning: dropping stale link %s -> %s: %v\n", id, target, err)
			}
		}
	}

	return s
}

// Save atomically persists the index at path. The state is written to a
// temporary file in the same directory and renamed into place, so a
// failure partway through leaves the previously persisted index intact.
func (s *Store) Save(path string) error {
	disk := indexFile{
		Files:     make(map[string]*fileEntry, len(s.files)),
		Backlinks: make(map[string][]string, len(s.backlinks)),
	}
	for id, note := range s.files {
		disk.Files[id] = &fileEntry{
			Title:   note.Title,
			Tags:    emptyNotNil(note.Tags),
			Topics:  emptyNotNil(note.Topics),
			Summary: note.Summary,
			Created: note.Created,
			Source:  note.Source,
			Related: emptyNotNil(note.Related),
		}
		disk.Backlinks[id] = emptyNotNil(s.backlinks[id])
	}

	data, err := json.MarshalIndent(&disk, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing index %s: %w", path, err)
	}
	return nil
}

// AddDocument admits a note to the index. The stored record gets
// normalized tags and topics (lowercase, deduplicated, no empties) and
// an empty backlink set. The note's Related list must be empty; edges
// are added through AddLink so both mappings stay consistent.
func (s *Store) AddDocument(note *types.Note) error {
	if note == nil || note.ID == "" {
		return errors.New("note id must not be empty")
	}
	if _, ok := s.files[note.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, note.ID)
	}
	if len(note.Related) > 0 {
		return fmt.Errorf("note %s: related links must be added through AddLink", note.ID)
	}

	stored := *note
	stored.Tags = normalizeLabels(note.Tags)
	stored.Topics = normalizeLabels(note.Topics)
	stored.Related = nil

	s.files[stored.ID] = &stored
	if _, ok := s.backlinks[stored.ID]; !ok {
		s.backlinks[stored.ID] = nil
	}
	return nil
}

// AddLink records a directed edge from source to target and the matching
// backlink. Idempotent: an existing edge is a no-op, as is a self-link.
// Both IDs must already be in the index.
func (s *Store) AddLink(source, target string) error {
	src, ok := s.files[source]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownID, source)
	}
	if _, ok := s.files[target]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownID, target)
	}
	if source == target {
		return nil
	}
	for _, existing := range src.Related {
		if existing == target {
			return nil
		}
	}

	src.Related = append(src.Related, target)
	s.backlinks[target] = append(s.backlinks[target], source)
	return nil
}

// Get returns the note for id, or false if it is not in the index.
func (s *Store) Get(id string) (*types.Note, bool) {
	note, ok := s.files[id]
	return note, ok
}

// Len returns the number of notes in the index.
func (s *Store) Len() int {
	return len(s.files)
}

// Records returns all notes sorted by ID. The slice is a snapshot taken
// at call time: notes admitted afterwards do not appear in it. The
// elements point at the store's records and must not be mutated.
func (s *Store) Records() []*types.Note {
	records := make([]*types.Note, 0, len(s.files))
	for _, note := range s.files {
		records = append(records, note)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// Backlinks returns a copy of the IDs that link to id, in the order the
// links were recorded. A reloaded index replays edges in sorted note-ID
// order, so the order after Load is sorted by linking note.
func (s *Store) Backlinks(id string) []string {
	return append([]string(nil), s.backlinks[id]...)
}

// normalizeLabels lowercases, trims, deduplicates, and drops empty
// strings, preserving first-occurrence order.
func normalizeLabels(labels []string) []string {
	var out []string
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// emptyNotNil keeps persisted lists as [] rather than null.
func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
