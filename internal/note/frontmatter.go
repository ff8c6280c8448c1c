// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package note parses AI summarizer output into frontmatter plus body and
// renders notes back to Markdown. Parsing is layered: a strict YAML pass,
// then a permissive line-oriented fallback, both yielding the same shape
// so downstream code never sees which path was taken.
package note

import (
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Frontmatter holds the metadata block of a note.
type Frontmatter struct {
	Title     string   `yaml:"title"`
	MainTopic string   `yaml:"main_topic,omitempty"`
	Date      string   `yaml:"date,omitempty"`
	Tags      []string `yaml:"tags"`
	Summary   string   `yaml:"summary,omitempty"`
}

var (
	frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)$`)
	headingRe     = regexp.MustCompile(`(?m)^## (.+)$`)
)

// ParseDocument splits raw summarizer output into frontmatter and body.
// Code fences around the whole document are stripped first. Malformed
// YAML falls back to line-oriented extraction; a document with no
// frontmatter block at all gets its metadata recovered best-effort from
// the leading key: value lines, or defaults.
func ParseDocument(raw string) (Frontmatter, string) {
	raw = stripFence(strings.TrimSpace(raw))

	m := frontmatterRe.FindStringSubmatch(raw)
	if m == nil {
		return extractFromContent(raw)
	}

	fmText, body := m[1], m[2]

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(fmText), &fields); err != nil {
		return fromFields(parseFallback(fmText)), body
	}
	return fromFields(fields), body
}

// stripFence removes a ```markdown ... ``` wrapper if present.
func stripFence(raw string) string {
	if strings.HasPrefix(raw, "```markdown") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "```markdown"))
	}
	if strings.HasSuffix(raw, "```") {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "```"))
	}
	return raw
}

// fromFields maps a loosely typed key/value set onto Frontmatter. Tags
// may arrive as a YAML list or a comma-separated string.
func fromFields(fields map[string]any) Frontmatter {
	var fm Frontmatter
	for key, value := range fields {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			fm.Title = toString(value)
		case "main_topic":
			fm.MainTopic = toString(value)
		case "date":
			fm.Date = toString(value)
		case "summary":
			fm.Summary = toString(value)
		case "tags":
			fm.Tags = toList(value)
		}
	}
	return fm
}

func toString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toList(v any) []string {
	switch val := v.(type) {
	case []any:
		var out []string
		for _, item := range val {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"'`)); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}

// parseFallback recovers key/value pairs from malformed YAML one line at
// a time: quoted scalars, bracket lists, booleans, and plain strings.
func parseFallback(text string) map[string]any {
	fields := make(map[string]any)

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			var items []any
			for _, item := range strings.Split(value[1:len(value)-1], ",") {
				items = append(items, strings.Trim(strings.TrimSpace(item), `"'`))
			}
			fields[key] = items
		} else {
			fields[key] = value
		}
	}
	return fields
}

// metadataKeys are the frontmatter keys recognized when recovering
// metadata from an unfenced document head.
var metadataKeys = map[string]bool{
	"title": true, "main_topic": true, "date": true, "summary": true, "tags": true,
}

// extractFromContent handles output with no frontmatter block: leading
// key: value lines are consumed as metadata until the first heading or
// non-metadata line. With nothing recoverable the defaults are Untitled,
// no tags, topic general.
func extractFromContent(raw string) (Frontmatter, string) {
	lines := strings.Split(raw, "\n")
	fields := make(map[string]any)
	contentStart := 0

	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if strings.TrimSpace(line) == "" && len(fields) > 0 {
				contentStart = i + 1
				continue
			}
			break
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !metadataKeys[key] {
			break
		}
		if key == "tags" {
			fields[key] = strings.Trim(strings.TrimSpace(value), `"'`)
		} else {
			fields[key] = strings.Trim(strings.TrimSpace(value), `"'`)
		}
		contentStart = i + 1
	}

	if len(fields) == 0 {
		return Frontmatter{Title: "Untitled", MainTopic: "general"}, raw
	}

	fm := fromFields(fields)
	body := strings.TrimSpace(strings.Join(lines[contentStart:], "\n"))
	return fm, body
}

// ExtractTopics pulls topics from the body's second-level headings: the
// first five, lowercased with spaces replaced by underscores.
func ExtractTopics(content string) []string {
	var topics []string
	for _, m := range headingRe.FindAllStringSubmatch(content, 5) {
		heading := strings.ToLower(strings.TrimSpace(m[1]))
		topics = append(topics, strings.ReplaceAll(heading, " ", "_"))
	}
	return topics
}
