// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"fmt"
	"sort"

	"github.com/pdiddy/vault-engine/internal/index"
	"github.com/pdiddy/vault-engine/pkg/types"
)

// Candidate pairs a note ID with its similarity score to the note links
// were generated for.
type Candidate struct {
	ID    string  `json:"id" yaml:"id"`
	Score float64 `json:"score" yaml:"score"`
}

// Rank scores note against every candidate, keeps those at or above
// minConfidence, and returns at most maxResults of them sorted by score
// descending with ties broken by ID ascending. A non-positive
// maxResults means no limit. The ordering is
// independent of the candidates' input order. The note itself is skipped
// if present among the candidates. Pure: neither argument is mutated.
func Rank(note *types.Note, candidates []*types.Note, minConfidence float64, maxResults int) []Candidate {
	var ranked []Candidate
	for _, c := range candidates {
		if c.ID == note.ID {
			continue
		}
		score := Score(note, c)
		if score >= minConfidence {
			ranked = append(ranked, Candidate{ID: c.ID, Score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// Generate ranks the note against the rest of the index and records the
// accepted edges through the store. The note gains an outbound edge per
// candidate and each candidate gains the matching backlink; with
// cfg.Mutual the reverse outbound edge is added on the candidate as
// well. The note must already be admitted to the store.
func Generate(store *index.Store, note *types.Note, cfg types.LinkerConfig) ([]Candidate, error) {
	accepted := Rank(note, store.Records(), cfg.MinConfidence, cfg.MaxResults)

	for _, c := range accepted {
		if err := store.AddLink(note.ID, c.ID); err != nil {
			return nil, fmt.Errorf("linking %s -> %s: %w", note.ID, c.ID, err)
		}
		if cfg.Mutual {
			if err := store.AddLink(c.ID, note.ID); err != nil {
				return nil, fmt.Errorf("linking %s -> %s: %w", c.ID, note.ID, err)
			}
		}
	}
	return accepted, nil
}
