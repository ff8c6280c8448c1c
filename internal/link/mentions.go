// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/vault-engine/internal/index"
)

// boldRe matches **bold** concept mentions in a note body.
var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// MentionConfidence is the score assigned to a bold concept mention
// that matches a topic of another note. Higher than any similarity
// score needs to be: an explicit mention is stronger evidence than
// label overlap.
const MentionConfidence = 0.8

// Mentions extracts the bold-text concepts in content, in order of
// appearance, normalized the way topics are stored (lowercase, spaces
// folded to underscores).
func Mentions(content string) []string {
	var concepts []string
	for _, m := range boldRe.FindAllStringSubmatch(content, -1) {
		concepts = append(concepts, conceptKey(m[1]))
	}
	return concepts
}

func conceptKey(anchor string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(anchor)), " ", "_")
}

// LinkMentions rewrites bold concept mentions in body as [[target|anchor]]
// wiki links to notes whose topics match the mention, recording each
// edge through the store. A mention matches a topic when either string
// contains the other; when several notes match, the lowest ID wins.
// Each anchor is linked at most once, at its first occurrence. Returns
// the rewritten body and the linked notes as candidates scored at
// MentionConfidence.
func LinkMentions(store *index.Store, noteID, body string) (string, []Candidate, error) {
	seenAnchor := make(map[string]bool)
	seenTarget := make(map[string]bool)
	var accepted []Candidate

	for _, m := range boldRe.FindAllStringSubmatch(body, -1) {
		anchor := m[1]
		concept := conceptKey(anchor)
		if concept == "" || seenAnchor[concept] {
			continue
		}
		seenAnchor[concept] = true

		target := mentionTarget(store, noteID, concept)
		if target == "" {
			continue
		}

		if err := store.AddLink(noteID, target); err != nil {
			return "", nil, fmt.Errorf("linking mention %q -> %s: %w", anchor, target, err)
		}

		wiki := fmt.Sprintf("[[%s|%s]]", strings.TrimSuffix(target, ".md"), anchor)
		body = strings.Replace(body, m[0], wiki, 1)

		if !seenTarget[target] {
			seenTarget[target] = true
			accepted = append(accepted, Candidate{ID: target, Score: MentionConfidence})
		}
	}
	return body, accepted, nil
}

// mentionTarget returns the first note in ID order with a topic
// matching the concept, or "" when none does. The note itself is never
// a target.
func mentionTarget(store *index.Store, noteID, concept string) string {
	for _, record := range store.Records() {
		if record.ID == noteID {
			continue
		}
		for _, topic := range record.Topics {
			topic = conceptKey(topic)
			if strings.Contains(topic, concept) || strings.Contains(concept, topic) {
				return record.ID
			}
		}
	}
	return ""
}
