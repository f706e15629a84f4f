// Package extract turns question chunks into a canonical survey record using
// rule-based heuristics.
package extract

import (
	"fmt"
	"strings"

	"github.com/surveyforge/draftd/survey"
)

// Default survey-level fields when the extractor is not configured.
const (
	DefaultTitle    = "Auto-generated survey"
	DefaultLanguage = "en"
)

// Extractor converts chunks into a survey. The zero value uses the default
// title, language, and classifier.
type Extractor struct {
	// Title and Language are applied to the generated survey.
	Title    string
	Language string

	// Classify overrides the built-in heuristic classifier.
	Classify Classifier
}

// Extract runs the default extractor over the given chunks.
func Extract(chunks []string) survey.Survey {
	return Extractor{}.Extract(chunks)
}

// Extract builds a canonical survey from ordered question chunks. Question
// ids are assigned by position (Q1, Q2, ...), independent of any numbering
// in the text.
func (e Extractor) Extract(chunks []string) survey.Survey {
	classify := e.Classify
	if classify == nil {
		classify = Classify
	}
	title := e.Title
	if title == "" {
		title = DefaultTitle
	}
	language := e.Language
	if language == "" {
		language = DefaultLanguage
	}

	questions := make([]survey.Question, 0, len(chunks))
	for i, chunk := range chunks {
		lines := strings.Split(chunk, "\n")
		qtype := classify(chunk)

		var options []string
		for _, line := range lines[1:] {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "-") {
				options = append(options, strings.TrimSpace(strings.TrimLeft(trimmed, "- ")))
			}
		}

		questions = append(questions, survey.Question{
			ID:          fmt.Sprintf("Q%d", i+1),
			Text:        lines[0],
			Type:        qtype,
			Options:     options,
			NeedsReview: qtype == survey.TypeUnknown,
		})
	}

	return survey.Survey{
		Title:     title,
		Language:  language,
		Questions: questions,
	}
}
