// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package note

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

var (
	nonWordRe   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separatorRe = regexp.MustCompile(`[-\s]+`)
)

// Slug normalizes a string into a filename-safe slug: punctuation
// removed, whitespace runs collapsed to single hyphens, lowercased.
func Slug(s string) string {
	s = nonWordRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}

// Filename derives the note filename from frontmatter. A main topic
// becomes the base, extended with up to two distinguishing title words;
// without one the title is used, then the fallback. Always ends in .md.
func Filename(fm Frontmatter, fallback string) string {
	name := filenameBase(fm, fallback)
	if name == "" {
		name = "untitled"
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name
}

func filenameBase(fm Frontmatter, fallback string) string {
	topic := strings.ToLower(strings.TrimSpace(fm.MainTopic))
	title := strings.ToLower(strings.TrimSpace(fm.Title))

	if topic == "" {
		if s := Slug(title); s != "" {
			return s
		}
		return Slug(strings.TrimSuffix(fallback, filepath.Ext(fallback)))
	}

	topicSlug := Slug(topic)
	titleSlug := Slug(title)
	if titleSlug == "" || titleSlug == topicSlug {
		return topicSlug
	}

	// Keep up to two title words that add information over the topic.
	var keywords []string
	for _, word := range strings.Fields(title) {
		if len([]rune(word)) > 3 && !strings.Contains(topic, word) {
			if s := Slug(word); s != "" {
				keywords = append(keywords, s)
			}
		}
		if len(keywords) == 2 {
			break
		}
	}
	if len(keywords) == 0 {
		return topicSlug
	}
	return topicSlug + "-" + strings.Join(keywords, "-")
}

// Render serializes a note as frontmatter-delimited Markdown.
func Render(fm Frontmatter, content string) (string, error) {
	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return fmt.Sprintf("---\n%s---\n\n%s", data, content), nil
}

// Write renders the note and writes it into dir under filename.
func Write(dir, filename string, fm Frontmatter, content string) (string, error) {
	rendered, err := Render(fm, content)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating vault directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("writing note %s: %w", path, err)
	}
	return path, nil
}
