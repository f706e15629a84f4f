// Package segment splits raw draft text into question-sized chunks using
// line-numbering cues.
package segment

import (
	"regexp"
	"strings"
)

// Structured is the result of segmenting a raw draft: the untouched input
// plus its ordered question chunks.
type Structured struct {
	Raw    string   `json:"raw"`
	Chunks []string `json:"chunks"`
}

// markerRe matches a question-start marker at the beginning of a line:
// an optional "Q", one or more digits, "." or ")", then whitespace.
// Examples: "Q1. ", "2) ", "10.\t".
var markerRe = regexp.MustCompile(`^(Q?\d+)[.)]\s`)

// IsMarker reports whether a line opens a new question.
func IsMarker(line string) bool {
	return markerRe.MatchString(line)
}

// Structure splits raw text into question chunks. Lines are trimmed and
// empty lines dropped, preserving order. A marker line closes the current
// chunk and starts a new one; the marker line itself belongs to the new
// chunk. Text before the first marker folds into the first chunk. An input
// with no markers yields a single chunk with the whole document; empty input
// yields no chunks.
func Structure(raw string) Structured {
	var chunks []string
	var buffer []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if IsMarker(line) && len(buffer) > 0 {
			chunks = append(chunks, strings.Join(buffer, "\n"))
			buffer = buffer[:0]
		}
		buffer = append(buffer, line)
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, "\n"))
	}

	return Structured{Raw: raw, Chunks: chunks}
}
