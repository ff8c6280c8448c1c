// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Note holds the structured metadata for one processed document in the
// vault. The ID doubles as the note's output filename and is immutable
// once the note is admitted to the index.
type Note struct {
	// ID is the note's slug-derived filename (e.g. "linear-algebra.md").
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable note title.
	Title string `json:"title" yaml:"title"`

	// Tags are normalized (lowercase, deduplicated) topic labels from
	// the document frontmatter.
	Tags []string `json:"tags" yaml:"tags"`

	// Topics are normalized section labels extracted from the note body.
	// A distinct namespace from Tags.
	Topics []string `json:"topics" yaml:"topics"`

	// Summary is the generated abstract. Informational only; never used
	// for similarity scoring.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Related lists the IDs of notes this note links to, in discovery
	// order. No self-references, no duplicates.
	Related []string `json:"related" yaml:"related"`

	// Created is the admission date (ISO 8601 date).
	Created string `json:"created,omitempty" yaml:"created,omitempty"`

	// Source is the path of the document the note was produced from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// GraphStats aggregates counters over the whole vault index.
type GraphStats struct {
	// TotalFiles is the number of notes in the index.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalLinks is the number of directed edges: the sum of len(Related)
	// over all notes.
	TotalLinks int `json:"total_links" yaml:"total_links"`

	// UniqueTags is the number of distinct tags across all notes.
	UniqueTags int `json:"unique_tags" yaml:"unique_tags"`

	// UniqueTopics is the number of distinct topics across all notes.
	UniqueTopics int `json:"unique_topics" yaml:"unique_topics"`
}

// GraphNode is one note in the exported visualization graph, grouped by
// its first tag.
type GraphNode struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label" yaml:"label"`
	Tags  []string `json:"tags" yaml:"tags"`
	Group string   `json:"group" yaml:"group"`
}

// GraphEdge is one directed link in the exported graph.
type GraphEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

// GraphExport is the visualization-ready graph layout: nodes, edges,
// and the aggregate statistics.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Links []GraphEdge `json:"links" yaml:"links"`
	Stats GraphStats  `json:"stats" yaml:"stats"`
}
