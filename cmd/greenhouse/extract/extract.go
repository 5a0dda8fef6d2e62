// Package extract recovers a validated PlantIdentification record from the
// free text a generative model returns. Models are not guaranteed to emit
// strict JSON: markdown fences, leading prose and literal newlines inside
// string values are all observed failure modes, so parsing falls through a
// ladder of progressively more forgiving stages.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
)

var (
	// Markdown code fences, with or without a "json" tag.
	fenceRe = regexp.MustCompile("```json\\s*|\\s*```")

	// Non-greedy top-level object scan. Lazy and non-recursive: a payload
	// containing unbalanced braces inside a string value can truncate a
	// candidate, which the longest-first ordering below mitigates.
	objectRe = regexp.MustCompile(`(?s)\{.*?\}`)

	newlineRe = regexp.MustCompile(`\r?\n`)
)

// Error is an extraction failure carrying the original response text for
// diagnosis.
type Error struct {
	Reason string
	Text   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract identification: %s", e.Reason)
}

// Identification reduces raw oracle output to a validated record.
// Stages, stopping at the first success:
//  1. parse the whole input as JSON
//  2. strip code fences and retry
//  3. scan for object-like substrings
//  4. try candidates longest-first (longer is likelier the complete object)
//  5. collapse literal newlines inside each candidate before parsing
//
// A candidate is accepted only if name, summary, description and
// careInstructions are all present and are strings.
func Identification(text string) (*models.PlantIdentification, error) {
	// Stage 1: the whole input is already strict JSON.
	if rec, ok := parseCandidate(text); ok {
		return rec, nil
	}

	// Stage 2: strip markdown fences and retry.
	stripped := fenceRe.ReplaceAllString(text, "")
	if rec, ok := parseCandidate(stripped); ok {
		return rec, nil
	}

	// Stage 3: collect object-like substrings.
	candidates := objectRe.FindAllString(stripped, -1)
	if len(candidates) == 0 {
		return nil, &Error{Reason: "no JSON-like content found in response", Text: text}
	}

	// Stage 4: longest first.
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	// Stage 5: per-candidate newline collapse, first valid wins.
	for _, candidate := range candidates {
		cleaned := newlineRe.ReplaceAllString(candidate, " ")
		if rec, ok := parseCandidate(cleaned); ok {
			return rec, nil
		}
	}

	return nil, &Error{Reason: "no candidate produced a valid identification", Text: text}
}

// parseCandidate parses one candidate string and checks that all four
// required fields are present as strings. A field of any other JSON type
// rejects the candidate.
func parseCandidate(s string) (*models.PlantIdentification, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &raw); err != nil {
		return nil, false
	}

	fields := make(map[string]string, 4)
	for _, key := range []string{"name", "summary", "description", "careInstructions"} {
		val, ok := raw[key].(string)
		if !ok {
			return nil, false
		}
		fields[key] = val
	}

	return &models.PlantIdentification{
		Name:             fields["name"],
		Summary:          fields["summary"],
		Description:      fields["description"],
		CareInstructions: fields["careInstructions"],
	}, true
}
