package decipher

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/surveyforge/draftd/survey"
)

type xmlRow struct {
	Label string `xml:"label,attr"`
	Text  string `xml:",chardata"`
}

type xmlQuestion struct {
	XMLName xml.Name
	Label   string   `xml:"label,attr"`
	Size    string   `xml:"size,attr"`
	Title   string   `xml:"title"`
	Rows    []xmlRow `xml:"row"`
}

type xmlBlock struct {
	Label     string        `xml:"label,attr"`
	Questions []xmlQuestion `xml:",any"`
}

type xmlSurvey struct {
	XMLName  xml.Name `xml:"survey"`
	Title    string   `xml:"title,attr"`
	Language string   `xml:"language,attr"`
	Block    xmlBlock `xml:"block"`
}

func parse(t *testing.T, out string) xmlSurvey {
	t.Helper()
	var s xmlSurvey
	if err := xml.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("output is not parseable XML: %v\n%s", err, out)
	}
	return s
}

func TestBuild_RadioRoundTrip(t *testing.T) {
	s := &survey.Survey{
		Title:    "Colors",
		Language: "en",
		Questions: []survey.Question{
			{ID: "Q1", Text: "Color?", Type: survey.TypeSingleSelect, Options: []string{"A", "B"}},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("missing UTF-8 XML declaration:\n%s", out)
	}

	got := parse(t, out)
	if got.Title != "Colors" || got.Language != "en" {
		t.Errorf("survey attrs = %q/%q", got.Title, got.Language)
	}
	if got.Block.Label != "b1" {
		t.Errorf("block label = %q, want b1", got.Block.Label)
	}
	if len(got.Block.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(got.Block.Questions))
	}

	q := got.Block.Questions[0]
	if q.XMLName.Local != "radio" {
		t.Errorf("tag = %q, want radio", q.XMLName.Local)
	}
	if q.Label != "Q1" {
		t.Errorf("label = %q, want Q1", q.Label)
	}
	if q.Title != "Color?" {
		t.Errorf("title = %q, want Color?", q.Title)
	}
	if len(q.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(q.Rows))
	}
	if q.Rows[0].Label != "Q1_1" || q.Rows[0].Text != "A" {
		t.Errorf("rows[0] = %+v, want label Q1_1 text A", q.Rows[0])
	}
	if q.Rows[1].Label != "Q1_2" || q.Rows[1].Text != "B" {
		t.Errorf("rows[1] = %+v, want label Q1_2 text B", q.Rows[1])
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Q-1!", "Q_1_"},
		{"Q1", "Q1"},
		{"a b.c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeLabel(tt.in); got != tt.want {
			t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild_SanitizedRowLabels(t *testing.T) {
	s := &survey.Survey{
		Questions: []survey.Question{
			{ID: "Q-1!", Text: "t", Type: survey.TypeSingleSelect, Options: []string{"x"}},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	q := parse(t, out).Block.Questions[0]
	if q.Label != "Q_1_" {
		t.Errorf("label = %q, want Q_1_", q.Label)
	}
	if q.Rows[0].Label != "Q_1__1" {
		t.Errorf("row label = %q, want Q_1__1", q.Rows[0].Label)
	}
	// Row text stays verbatim, never sanitized.
	if q.Rows[0].Text != "x" {
		t.Errorf("row text = %q, want x", q.Rows[0].Text)
	}
}

func TestBuild_OpenText(t *testing.T) {
	s := &survey.Survey{
		Questions: []survey.Question{
			{ID: "Q1", Text: "Comments?", Type: survey.TypeOpenText},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	q := parse(t, out).Block.Questions[0]
	if q.XMLName.Local != "open" {
		t.Errorf("tag = %q, want open", q.XMLName.Local)
	}
	if q.Size != "medium" {
		t.Errorf("size = %q, want medium", q.Size)
	}
	if len(q.Rows) != 0 {
		t.Errorf("open question should have no rows, got %d", len(q.Rows))
	}
}

func TestBuild_UnknownTypeDefaultsToRadio(t *testing.T) {
	s := &survey.Survey{
		Questions: []survey.Question{
			{ID: "Q1", Text: "xyz", Type: survey.TypeUnknown, NeedsReview: true},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	q := parse(t, out).Block.Questions[0]
	if q.XMLName.Local != "radio" {
		t.Errorf("tag = %q, want radio fallback", q.XMLName.Local)
	}
}

func TestBuild_GridStaysEmpty(t *testing.T) {
	s := &survey.Survey{
		Questions: []survey.Question{
			{ID: "Q1", Text: "Rate items", Type: survey.TypeMatrix,
				Rows: []string{"r1"}, Columns: []string{"c1"}},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	q := parse(t, out).Block.Questions[0]
	if q.XMLName.Local != "grid" {
		t.Errorf("tag = %q, want grid", q.XMLName.Local)
	}
	if len(q.Rows) != 0 {
		t.Errorf("grid export is a structural no-op, got %d rows", len(q.Rows))
	}
}

func TestBuild_Defaults(t *testing.T) {
	out, err := Build(&survey.Survey{})
	if err != nil {
		t.Fatal(err)
	}
	got := parse(t, out)
	if got.Title != "Untitled Survey" {
		t.Errorf("title = %q, want Untitled Survey", got.Title)
	}
	if got.Language != "en" {
		t.Errorf("language = %q, want en", got.Language)
	}
}

func TestBuild_EscapesContent(t *testing.T) {
	s := &survey.Survey{
		Title: `He said "go" & <left>`,
		Questions: []survey.Question{
			{ID: "Q1", Text: "a < b && c > d?", Type: survey.TypeOpenText},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	got := parse(t, out)
	if got.Title != `He said "go" & <left>` {
		t.Errorf("title round-trip = %q", got.Title)
	}
	if got.Block.Questions[0].Title != "a < b && c > d?" {
		t.Errorf("text round-trip = %q", got.Block.Questions[0].Title)
	}
}

func TestBuild_Indentation(t *testing.T) {
	s := &survey.Survey{
		Questions: []survey.Question{
			{ID: "Q1", Text: "t", Type: survey.TypeOpenText},
		},
	}

	out, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\n  <block") {
		t.Errorf("expected two-space indented block element:\n%s", out)
	}
}
