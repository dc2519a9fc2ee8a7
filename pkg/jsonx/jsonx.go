// Package jsonx decodes the loosely formatted JSON that chat models return:
// plain objects, fenced code blocks, or objects embedded in prose.
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoObject = errors.New("no JSON object found")

// ExtractObject pulls the first JSON object out of an LLM completion.
// Markdown code fences are stripped first; as a last resort the substring
// between the outermost braces is tried.
func ExtractObject(raw string) (map[string]any, error) {
	candidate := strings.TrimSpace(stripFences(raw))
	if candidate == "" {
		return nil, ErrNoObject
	}

	out := map[string]any{}
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out, nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return nil, ErrNoObject
	}
	out = map[string]any{}
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &out); err != nil {
		return nil, ErrNoObject
	}
	return out, nil
}

func stripFences(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if idx := strings.Index(raw, "```"); idx >= 0 {
		rest := raw[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return raw
}
