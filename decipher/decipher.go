// Package decipher renders a canonical survey record into Decipher-style
// survey XML (survey/block/radio/checkbox/open/grid/row/title).
//
// Matrix questions are exported as an empty grid element: the row/column
// mapping is intentionally not emitted, matching the reference behavior so
// existing consumers see identical output. Complete the mapping here if that
// compatibility constraint is ever dropped.
package decipher

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode"

	"github.com/surveyforge/draftd/survey"
)

// Defaults applied when the survey omits the corresponding field.
const (
	DefaultTitle    = "Untitled Survey"
	DefaultLanguage = "en"
)

// typeTags maps canonical question types to Decipher element tags.
var typeTags = map[survey.QuestionType]string{
	survey.TypeSingleSelect: "radio",
	survey.TypeMultiSelect:  "checkbox",
	survey.TypeOpenText:     "open",
	survey.TypeMatrix:       "grid",
}

// defaultTag is used for unknown or unmapped question types. The fallback is
// deliberate, not an unhandled case: unreviewed questions still export as a
// radio shell for a human to fix up in the authoring tool.
const defaultTag = "radio"

// Tag returns the Decipher element tag for a question type.
func Tag(t survey.QuestionType) string {
	if tag, ok := typeTags[t]; ok {
		return tag
	}
	return defaultTag
}

// SanitizeLabel builds a stable XML label: every character that is not a
// letter or digit becomes an underscore.
func SanitizeLabel(base string) string {
	out := []rune(base)
	for i, r := range out {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			out[i] = '_'
		}
	}
	return string(out)
}

// Build renders the survey as pretty-printed UTF-8 XML with two-space
// indentation.
func Build(s *survey.Survey) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	title := s.Title
	if title == "" {
		title = DefaultTitle
	}
	language := s.Language
	if language == "" {
		language = DefaultLanguage
	}

	root := start("survey", attr("title", title), attr("language", language))
	if err := enc.EncodeToken(root); err != nil {
		return "", err
	}

	block := start("block", attr("label", "b1"))
	if err := enc.EncodeToken(block); err != nil {
		return "", err
	}

	for _, q := range s.Questions {
		if err := encodeQuestion(enc, &q); err != nil {
			return "", err
		}
	}

	if err := enc.EncodeToken(block.End()); err != nil {
		return "", err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	buf.WriteByte('\n')
	return buf.String(), nil
}

func encodeQuestion(enc *xml.Encoder, q *survey.Question) error {
	tag := Tag(q.Type)
	label := SanitizeLabel(q.ID)

	attrs := []xml.Attr{attr("label", label)}
	if tag == "open" {
		attrs = append(attrs, attr("size", "medium"))
	}
	elem := start(tag, attrs...)
	if err := enc.EncodeToken(elem); err != nil {
		return err
	}

	text := q.Text
	if text == "" {
		text = q.ID
	}
	if err := encodeTextElement(enc, "title", nil, text); err != nil {
		return err
	}

	if tag == "radio" || tag == "checkbox" {
		for i, opt := range q.Options {
			rowAttrs := []xml.Attr{attr("label", fmt.Sprintf("%s_%d", label, i+1))}
			if err := encodeTextElement(enc, "row", rowAttrs, opt); err != nil {
				return err
			}
		}
	}

	// grid: rows/columns intentionally not emitted (see package doc).

	return enc.EncodeToken(elem.End())
}

func encodeTextElement(enc *xml.Encoder, name string, attrs []xml.Attr, text string) error {
	elem := start(name, attrs...)
	if err := enc.EncodeToken(elem); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(elem.End())
}

func start(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: attrs,
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
