// Package survey defines the canonical survey representation shared by all
// pipeline stages, and the advisory consistency checks applied to it.
package survey

// QuestionType classifies a survey question.
type QuestionType string

const (
	TypeSingleSelect QuestionType = "single_select"
	TypeMultiSelect  QuestionType = "multi_select"
	TypeOpenText     QuestionType = "open_text"
	TypeMatrix       QuestionType = "matrix"
	TypeUnknown      QuestionType = "unknown"
)

// Question is one extracted survey question.
//
// Options stays nil (serialised as null) when no option lines were found.
// Rows and Columns are only meaningful for matrix questions; the heuristic
// extractor never fills them, so the consistency checker flags every
// extracted matrix question until a human completes it.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options"`
	Rows        []string     `json:"rows,omitempty"`
	Columns     []string     `json:"columns,omitempty"`
	NeedsReview bool         `json:"needs_review"`
}

// Survey is the canonical survey record.
type Survey struct {
	Title     string     `json:"title"`
	Language  string     `json:"language"`
	Questions []Question `json:"questions"`
}

// ValidationReport combines schema validation with advisory consistency
// issues. Valid reflects schema conformance only; ExtraIssues never flips it.
type ValidationReport struct {
	Valid        bool     `json:"valid"`
	SchemaErrors []string `json:"schema_errors"`
	ExtraIssues  []string `json:"extra_issues"`
}
