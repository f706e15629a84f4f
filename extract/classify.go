package extract

import (
	"strings"

	"github.com/surveyforge/draftd/survey"
)

// Classifier infers a question type from a chunk. The built-in heuristic is
// deliberately replaceable: anything that can label a chunk (including a
// learned model) can stand in behind this signature.
type Classifier func(chunk string) survey.QuestionType

// rule is one predicate→label pair of the classification decision table.
type rule struct {
	match func(chunk string, lines []string) bool
	label survey.QuestionType
}

// rules is evaluated top to bottom; the first match wins. The order is load
// bearing: a chunk with dash-prefixed option lines is always single_select,
// even when it also mentions "matrix" or "open".
var rules = []rule{
	{
		match: func(_ string, lines []string) bool {
			for _, line := range lines[1:] {
				if strings.HasPrefix(strings.TrimSpace(line), "-") {
					return true
				}
			}
			return false
		},
		label: survey.TypeSingleSelect,
	},
	{
		match: func(chunk string, _ []string) bool {
			return strings.Contains(strings.ToLower(chunk), "matrix")
		},
		label: survey.TypeMatrix,
	},
	{
		match: func(chunk string, _ []string) bool {
			lower := strings.ToLower(chunk)
			return strings.Contains(lower, "open") || strings.Contains(lower, "comment")
		},
		label: survey.TypeOpenText,
	},
}

// Classify applies the heuristic decision table to a chunk. Chunks matching
// no rule are labelled unknown and flagged for review by the extractor.
func Classify(chunk string) survey.QuestionType {
	lines := strings.Split(chunk, "\n")
	for _, r := range rules {
		if r.match(chunk, lines) {
			return r.label
		}
	}
	return survey.TypeUnknown
}
