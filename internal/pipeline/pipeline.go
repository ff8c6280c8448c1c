// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the stages together: load a document, summarize
// it, parse the result into a note, admit it to the index, generate
// similarity and mention links, render the note into the vault, and
// persist the index.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/vault-engine/internal/index"
	"github.com/pdiddy/vault-engine/internal/ingest"
	"github.com/pdiddy/vault-engine/internal/link"
	"github.com/pdiddy/vault-engine/internal/note"
	"github.com/pdiddy/vault-engine/internal/summarize"
	"github.com/pdiddy/vault-engine/pkg/types"
)

// Process runs one document through the full pipeline and returns the
// path of the written note. The index on disk is only touched by the
// final Save: abandoning a document partway leaves durable state
// unchanged.
func Process(ctx context.Context, backend summarize.Backend, store *index.Store, cfg types.PipelineConfig, inputPath string, w io.Writer) (string, error) {
	doc, err := ingest.Load(inputPath)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "processing %s (%d chars, %s)\n", doc.Name, len(doc.Content), doc.Format)

	raw, err := backend.Summarize(ctx, summarize.Truncate(doc.Content, cfg.Summarize.MaxInputChars))
	if err != nil {
		return "", fmt.Errorf("summarizing %s: %w", doc.Name, err)
	}

	fm, body := note.ParseDocument(raw)
	if fm.Date == "" {
		fm.Date = time.Now().Format("2006-01-02")
	}

	filename := note.Filename(fm, doc.Name)
	title := fm.Title
	if title == "" {
		title = strings.TrimSuffix(filename, ".md")
	}

	record := &types.Note{
		ID:      filename,
		Title:   title,
		Tags:    fm.Tags,
		Topics:  note.ExtractTopics(body),
		Summary: fm.Summary,
		Created: fm.Date,
		Source:  doc.Path,
	}

	if err := store.AddDocument(record); err != nil {
		return "", err
	}
	admitted, _ := store.Get(filename)

	accepted, err := link.Generate(store, admitted, cfg.Linker)
	if err != nil {
		return "", err
	}
	body, mentioned, err := link.LinkMentions(store, filename, body)
	if err != nil {
		return "", err
	}

	linked := mergeCandidates(mentioned, accepted)
	if len(linked) > 0 {
		body = appendRelatedSection(body, store, linked)
		fmt.Fprintf(w, "linked %s to %d note(s)\n", filename, len(linked))
	}

	path, err := note.Write(cfg.Ingest.VaultDir, filename, fm, body)
	if err != nil {
		return "", err
	}

	if err := store.Save(cfg.Index.IndexPath); err != nil {
		return "", err
	}

	fmt.Fprintf(w, "wrote %s\n", path)
	return path, nil
}

// appendRelatedSection adds a "## Related Topics" section with wiki-style
// links for each accepted candidate, replacing an existing section of
// the same name.
func appendRelatedSection(body string, store *index.Store, accepted []link.Candidate) string {
	var b strings.Builder
	b.WriteString("\n## Related Topics\n")
	for _, c := range accepted {
		name := strings.TrimSuffix(c.ID, ".md")
		title := name
		if target, ok := store.Get(c.ID); ok && target.Title != "" {
			title = target.Title
		}
		fmt.Fprintf(&b, "- [[%s]] - %s\n", name, title)
	}

	if i := strings.Index(body, "\n## Related Topics\n"); i >= 0 {
		body = strings.TrimRight(body[:i], "\n")
	}
	return strings.TrimRight(body, "\n") + "\n" + b.String()
}

// mergeCandidates joins mention and similarity candidates, keeping the
// first entry per target ID.
func mergeCandidates(mentioned, scored []link.Candidate) []link.Candidate {
	seen := make(map[string]bool, len(mentioned)+len(scored))
	var out []link.Candidate
	for _, c := range mentioned {
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range scored {
		if !seen[c.ID] {
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

// BatchSummary holds counts from a batch processing run.
type BatchSummary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the number of documents considered.
func (s BatchSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ProcessAll runs every supported document in cfg.Ingest.SourceDir
// through Process. Sources whose modification time matches the ledger
// entry from a previous run are skipped; failures are reported per file
// and do not stop the batch.
func ProcessAll(ctx context.Context, backend summarize.Backend, store *index.Store, cfg types.PipelineConfig, w io.Writer) (BatchSummary, error) {
	ledger, err := ingest.OpenLedger(cfg.Ingest.LedgerPath)
	if err != nil {
		return BatchSummary{}, err
	}
	defer ledger.Close()

	entries, err := os.ReadDir(cfg.Ingest.SourceDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading source directory %s: %w", cfg.Ingest.SourceDir, err)
	}

	supported := make(map[string]bool)
	for _, ext := range ingest.SupportedFormats() {
		supported[ext] = true
	}

	var summary BatchSummary

	for _, entry := range entries {
		if entry.IsDir() || !supported[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		srcPath := filepath.Join(cfg.Ingest.SourceDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		changed, err := ledger.Changed(srcPath, info.ModTime())
		if err != nil {
			return summary, err
		}
		if !changed {
			fmt.Fprintf(w, "skipped %s\n", entry.Name())
			summary.Skipped++
			continue
		}

		notePath, err := Process(ctx, backend, store, cfg, srcPath, w)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		noteID := filepath.Base(notePath)
		if err := ledger.Record(srcPath, info.ModTime(), noteID, "processed"); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		}
		summary.Processed++
	}

	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, failed: %d\n",
		summary.Processed, summary.Skipped, summary.Failed)

	return summary, nil
}
