// Package frontmatter extracts YAML front matter from writeup markdown.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/taigrr/ctf-writeups/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	delimiter     = "---"
	untitled      = "Untitled"
	dateLayout    = "2006-01-02"
	headingPrefix = "# "
)

// recognized keys are lifted into WriteupMetadata; everything else goes to Extra.
var recognized = map[string]struct{}{
	"title":      {},
	"difficulty": {},
	"tags":       {},
	"platform":   {},
	"date":       {},
	"author":     {},
}

var yamlFormat = frontmatter.NewFormat(delimiter, delimiter, yaml.Unmarshal)

// Handler parses writeup documents.
type Handler struct{}

// New creates a new Handler.
func New() *Handler {
	return &Handler{}
}

// Parse splits a markdown document into metadata and body. It never fails:
// a missing or malformed header yields default metadata and the full input
// as body.
func (h *Handler) Parse(content string) types.ParsedDocument {
	result := types.ParsedDocument{
		Metadata: types.NewWriteupMetadata(),
		Body:     content,
	}

	if !hasHeader(content) {
		return result
	}

	var data map[string]any
	body, err := frontmatter.Parse(strings.NewReader(content), &data, yamlFormat)
	if err != nil {
		// Invalid YAML, treat as content without front matter
		return result
	}

	result.Metadata = toMetadata(data)
	result.Body = string(body)
	return result
}

// ExtractTitle returns the text of the first level-one heading in body, or
// "Untitled" when there is none.
func ExtractTitle(body string) string {
	for line := range strings.SplitSeq(body, "\n") {
		if strings.HasPrefix(line, headingPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, headingPrefix))
		}
	}
	return untitled
}

// Title resolves the display title of a parsed document.
func Title(meta types.WriteupMetadata, body string) string {
	if meta.Title != "" {
		return meta.Title
	}
	return ExtractTitle(body)
}

// hasHeader reports whether content opens with a delimiter line and closes
// the block with another one.
func hasHeader(content string) bool {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 || strings.TrimRight(lines[0], " \t\r") != delimiter {
		return false
	}
	for _, line := range lines[1:] {
		if strings.TrimRight(line, " \t\r") == delimiter {
			return true
		}
	}
	return false
}

func toMetadata(data map[string]any) types.WriteupMetadata {
	meta := types.NewWriteupMetadata()
	if data == nil {
		return meta
	}

	meta.Title = stringValue(data["title"])
	meta.Difficulty = stringValue(data["difficulty"])
	meta.Platform = stringValue(data["platform"])
	meta.Date = stringValue(data["date"])
	meta.Author = stringValue(data["author"])
	meta.Tags = tagsValue(data["tags"])

	for key, value := range data {
		if _, ok := recognized[key]; ok {
			continue
		}
		meta.Extra[key] = jsonSafe(value)
	}

	return meta
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return formatTime(t)
	default:
		return fmt.Sprint(t)
	}
}

// tagsValue only accepts a YAML sequence; any other shape yields no tags.
func tagsValue(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		tags = append(tags, stringValue(item))
	}
	return tags
}

// formatTime keeps a bare date as a date and anything finer as RFC 3339.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339Nano)
}

// jsonSafe rewrites YAML mappings with non-string keys, which encoding/json
// rejects, into string-keyed maps at any depth.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[fmt.Sprint(key)] = jsonSafe(value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[key] = jsonSafe(value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = jsonSafe(value)
		}
		return out
	default:
		return v
	}
}
