package resolver

import (
	"regexp"
	"strings"

	"billing/internal/document"
)

type markdownRule struct {
	pattern *regexp.Regexp
	format  func(text string) *document.Object
}

// Headings run first, while every piece still starts on a line boundary.
var markdownRules = []markdownRule{
	{regexp.MustCompile(`(?m)^###(.*)`), heading("help")},
	{regexp.MustCompile(`(?m)^##(.*)`), heading("subheader")},
	{regexp.MustCompile(`(?m)^#(.*)`), heading("header")},
	{regexp.MustCompile(`\*\*(\w.+?)\*\*`), func(s string) *document.Object {
		return document.NewObject().Set("text", document.String(s)).Set("bold", document.Bool(true))
	}},
	{regexp.MustCompile(`\*(\w.+?)\*`), func(s string) *document.Object {
		return document.NewObject().Set("text", document.String(s)).Set("italics", document.Bool(true))
	}},
}

func heading(style string) func(string) *document.Object {
	return func(s string) *document.Object {
		return document.NewObject().
			Set("text", document.String(strings.TrimSpace(s))).
			Set("style", document.String(style))
	}
}

// Markdown converts inline markdown in text into an array of runs. Text
// without markdown is returned unchanged.
func Markdown(text string) document.Value {
	parts := []document.Value{document.String(text)}
	for _, rule := range markdownRules {
		var next []document.Value
		for _, part := range parts {
			s, ok := part.(document.String)
			if !ok {
				next = append(next, part)
				continue
			}
			next = append(next, splitMatches(string(s), rule)...)
		}
		parts = next
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return document.Array(parts)
}

func splitMatches(line string, rule markdownRule) []document.Value {
	matches := rule.pattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return []document.Value{document.String(line)}
	}

	var parts []document.Value
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parts = append(parts, document.String(line[last:m[0]]))
		}
		parts = append(parts, rule.format(line[m[2]:m[3]]))
		last = m[1]
	}
	if last < len(line) {
		parts = append(parts, document.String(line[last:]))
	}
	return parts
}

// applyMarkdown rewrites every "text" string in the tree.
func applyMarkdown(v document.Value) {
	switch t := v.(type) {
	case *document.Object:
		for _, key := range t.Keys() {
			child, _ := t.Get(key)
			if s, ok := child.(document.String); ok && key == "text" {
				t.Set(key, Markdown(string(s)))
				continue
			}
			applyMarkdown(child)
		}
	case document.Array:
		for _, item := range t {
			applyMarkdown(item)
		}
	case document.Splice:
		for _, item := range t {
			applyMarkdown(item)
		}
	case *document.Paged:
		applyMarkdown(t.Content)
	}
}
