package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of an article file.
type frontMatter struct {
	Slug        string     `yaml:"slug"`
	Title       string     `yaml:"title"`
	Excerpt     string     `yaml:"excerpt"`
	Description string     `yaml:"description"`
	Category    string     `yaml:"category"`
	Tags        stringList `yaml:"tags"`
	PublishedAt string     `yaml:"publishedAt"`
}

// stringList accepts either a YAML sequence or a comma separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(node.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("tags: unexpected YAML node kind %d", node.Kind)
	}
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
// ok is false when the content has no front matter.
func splitFrontMatter(content string) (header, body string, ok bool) {
	s := strings.TrimPrefix(content, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !strings.HasPrefix(s, "---\n") {
		return "", content, false
	}
	rest := s[len("---\n"):]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content, false
	}
	header = rest[:end]
	body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return header, body, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts RFC 3339 timestamps and plain dates. Empty input is the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
