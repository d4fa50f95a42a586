package llm

import (
	"regexp"
	"strings"
)

var (
	jsonBlockPattern     = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON pulls the JSON object out of a model reply. Replies wrapped in
// a markdown code block or surrounded by prose are both handled. Returns ""
// when no object is present.
func ExtractJSON(content string) string {
	if m := jsonBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		return clean(m[1])
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return clean(content[start : end+1])
}

// clean drops trailing commas, which models commonly emit.
func clean(raw string) string {
	return trailingCommaPattern.ReplaceAllString(strings.TrimSpace(raw), "$1")
}
