// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/vault-engine/pkg/types"
)

// Orphaned returns the IDs of notes with no outbound and no inbound
// links, sorted. A note that only receives links is not orphaned.
func (s *Store) Orphaned() []string {
	var orphans []string
	for id, note := range s.files {
		if len(note.Related) == 0 && len(s.backlinks[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// Stats aggregates counters over the index: note count, directed edge
// count, and distinct tag and topic counts.
func (s *Store) Stats() types.GraphStats {
	tags := make(map[string]bool)
	topics := make(map[string]bool)
	links := 0

	for _, note := range s.files {
		links += len(note.Related)
		for _, tag := range note.Tags {
			tags[tag] = true
		}
		for _, topic := range note.Topics {
			topics[topic] = true
		}
	}

	return types.GraphStats{
		TotalFiles:   len(s.files),
		TotalLinks:   links,
		UniqueTags:   len(tags),
		UniqueTopics: len(topics),
	}
}

// ByTag returns the IDs of notes carrying the tag, sorted. The argument
// is normalized the same way stored labels are.
func (s *Store) ByTag(tag string) []string {
	return s.byLabel(tag, func(n *types.Note) []string { return n.Tags })
}

// ByTopic returns the IDs of notes covering the topic, sorted.
func (s *Store) ByTopic(topic string) []string {
	return s.byLabel(topic, func(n *types.Note) []string { return n.Topics })
}

func (s *Store) byLabel(label string, labels func(*types.Note) []string) []string {
	label = strings.ToLower(strings.TrimSpace(label))
	var ids []string
	for id, note := range s.files {
		for _, l := range labels(note) {
			if l == label {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// Export lays the graph out for visualization tooling: one node per
// note grouped by its first tag, one weighted edge per outbound link.
// Nodes come out in ID order, edges in source-then-discovery order.
func (s *Store) Export() types.GraphExport {
	out := types.GraphExport{
		Nodes: make([]types.GraphNode, 0, len(s.files)),
		Links: []types.GraphEdge{},
		Stats: s.Stats(),
	}
	for _, note := range s.Records() {
		group := "other"
		if len(note.Tags) > 0 {
			group = note.Tags[0]
		}
		out.Nodes = append(out.Nodes, types.GraphNode{
			ID:    note.ID,
			Label: note.Title,
			Tags:  emptyNotNil(note.Tags),
			Group: group,
		})
		for _, target := range note.Related {
			out.Links = append(out.Links, types.GraphEdge{
				Source: note.ID,
				Target: target,
				Weight: 1,
			})
		}
	}
	return out
}

// RelatedTo returns every note connected to id in either direction,
// deduplicated: outbound links in discovery order first, then inbound
// links not already listed.
func (s *Store) RelatedTo(id string) ([]string, error) {
	note, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}

	var related []string
	seen := make(map[string]bool)
	for _, target := range note.Related {
		if !seen[target] {
			seen[target] = true
			related = append(related, target)
		}
	}
	for _, source := range s.backlinks[id] {
		if !seen[source] {
			seen[source] = true
			related = append(related, source)
		}
	}
	return related, nil
}
