// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package link scores topical relatedness between notes and materializes
// similarity links in the vault index.
package link

import "github.com/pdiddy/vault-engine/pkg/types"

// Score returns the Jaccard similarity of two notes over the union of
// their tags and topics: |A∩B| / |A∪B|, in [0, 1]. Two notes with no
// labels at all score 0, not 1. Symmetric and deterministic.
func Score(a, b *types.Note) float64 {
	setA := labelSet(a)
	setB := labelSet(b)

	union := len(setA)
	intersection := 0
	for label := range setB {
		if setA[label] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// labelSet merges a note's tags and topics into a single lookup set.
func labelSet(n *types.Note) map[string]bool {
	set := make(map[string]bool, len(n.Tags)+len(n.Topics))
	for _, tag := range n.Tags {
		set[tag] = true
	}
	for _, topic := range n.Topics {
		set[topic] = true
	}
	return set
}
