// Package schema validates canonical survey records against the fixed survey
// JSON Schema. The schema is embedded and compiled once at process start;
// nothing mutates it afterwards.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/surveyforge/draftd/survey"
)

//go:embed survey_schema.json
var surveySchemaJSON string

var surveySchema = jsonschema.MustCompileString("survey_schema.json", surveySchemaJSON)

// Validate checks a decoded JSON document (map/slice/scalar values as
// produced by encoding/json) against the survey schema. It returns whether
// the document conforms plus the individual error messages, rendered as
// "<path>: <message>" and ordered by instance path. Malformed input is
// reported through the error list, never as a failure of Validate itself.
func Validate(doc any) (bool, []string) {
	err := surveySchema.Validate(doc)
	if err == nil {
		return true, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return false, []string{": " + err.Error()}
	}

	var entries []errorEntry
	collectLeaves(ve, &entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return comparePaths(entries[i].path, entries[j].path) < 0
	})

	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = fmt.Sprintf("%s: %s", strings.Join(e.path, "/"), e.message)
	}
	return false, msgs
}

// ValidateSurvey validates a typed survey record by round-tripping it
// through JSON, so that schema semantics apply to exactly what the API
// serialises.
func ValidateSurvey(s *survey.Survey) (bool, []string) {
	data, err := json.Marshal(s)
	if err != nil {
		return false, []string{": " + err.Error()}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, []string{": " + err.Error()}
	}
	return Validate(doc)
}

type errorEntry struct {
	path    []string
	message string
}

// collectLeaves flattens a validation error tree into its leaf causes, in
// discovery order.
func collectLeaves(e *jsonschema.ValidationError, out *[]errorEntry) {
	if len(e.Causes) == 0 {
		*out = append(*out, errorEntry{
			path:    splitInstancePath(e.InstanceLocation),
			message: e.Message,
		})
		return
	}
	for _, c := range e.Causes {
		collectLeaves(c, out)
	}
}

// splitInstancePath turns a JSON pointer ("/questions/0/type") into its
// segments. The root pointer yields no segments.
func splitInstancePath(ptr string) []string {
	if ptr == "" || ptr == "/" {
		return nil
	}
	segments := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, s := range segments {
		s = strings.ReplaceAll(s, "~1", "/")
		segments[i] = strings.ReplaceAll(s, "~0", "~")
	}
	return segments
}

// comparePaths orders paths segment by segment, numerically where both
// segments are array indices. Shorter paths sort before their extensions.
func comparePaths(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ai, aErr := strconv.Atoi(a[i])
		bi, bErr := strconv.Atoi(b[i])
		if aErr == nil && bErr == nil {
			if ai != bi {
				if ai < bi {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
