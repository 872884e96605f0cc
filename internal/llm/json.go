package llm

import (
	"regexp"
	"strings"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractJSONObject pulls the first JSON object out of a model response.
// Models wrap JSON in markdown fences or prose more often than not, so
// the fence is stripped first and then the outermost braces are taken.
// Returns "" when no object is found.
func ExtractJSONObject(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(objectRe.FindString(s))
}

// ExtractJSONArray pulls the first JSON array out of a model response.
// Returns "" when no array is found.
func ExtractJSONArray(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(arrayRe.FindString(s))
}
