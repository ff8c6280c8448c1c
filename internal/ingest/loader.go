// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads input documents in their source formats and tracks
// which sources have already been processed.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a loaded input document, format-agnostic from here on.
type Document struct {
	// Content is the extracted plain text.
	Content string

	// Path is the source file path.
	Path string

	// Name is the source file's base name.
	Name string

	// Format names the source format (markdown, plaintext, pdf, ...).
	Format string
}

// loaders maps file extensions to format name and loader function.
var loaders = map[string]struct {
	format string
	load   func(path string) (string, error)
}{
	".md":   {"markdown", loadText},
	".txt":  {"plaintext", loadText},
	".rst":  {"rst", loadText},
	".tex":  {"latex", loadText},
	".json": {"json", loadJSON},
	".pdf":  {"pdf", loadPDF},
	".docx": {"docx", loadDOCX},
}

// Load reads the document at path, extracting plain text according to
// the file extension. Unsupported extensions are an error.
func Load(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := loaders[ext]
	if !ok {
		return Document{}, fmt.Errorf("unsupported format %q (supported: %s)",
			ext, strings.Join(SupportedFormats(), ", "))
	}

	content, err := loader.load(path)
	if err != nil {
		return Document{}, fmt.Errorf("loading %s: %w", path, err)
	}

	return Document{
		Content: content,
		Path:    path,
		Name:    filepath.Base(path),
		Format:  loader.format,
	}, nil
}

// SupportedFormats returns the recognized file extensions, sorted.
func SupportedFormats() []string {
	exts := make([]string, 0, len(loaders))
	for ext := range loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadJSON re-indents JSON input so the summarizer sees stable text.
func loadJSON(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("parsing JSON: %w", err)
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// pdftotextBin is the text extraction binary. Package-level var for test
// substitution.
var pdftotextBin = "pdftotext"

// loadPDF extracts text by piping the PDF through pdftotext.
func loadPDF(path string) (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(pdftotextBin, "-enc", "UTF-8", path, "-")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w", pdftotextBin, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%s produced empty output", pdftotextBin)
	}
	return out.String(), nil
}
