package survey

import "fmt"

// Check applies cross-field invariants the schema cannot express. All rules
// run independently and the result is advisory: issues never fail a request
// and never affect schema validity.
func Check(s *Survey) []string {
	var issues []string

	// Question IDs must be unique across the survey. Reported once no matter
	// how many values repeat.
	seen := make(map[string]bool, len(s.Questions))
	duplicate := false
	for _, q := range s.Questions {
		if q.ID == "" {
			continue
		}
		if seen[q.ID] {
			duplicate = true
		}
		seen[q.ID] = true
	}
	if duplicate {
		issues = append(issues, "Duplicate question IDs detected.")
	}

	for _, q := range s.Questions {
		qid := q.ID
		if qid == "" {
			qid = "<unknown>"
		}

		switch q.Type {
		case TypeSingleSelect, TypeMultiSelect:
			if len(q.Options) == 0 {
				issues = append(issues, fmt.Sprintf("Question %s missing options for %s.", qid, q.Type))
			}
		case TypeMatrix:
			if len(q.Rows) == 0 || len(q.Columns) == 0 {
				issues = append(issues, fmt.Sprintf("Question %s matrix must have both rows and columns.", qid))
			}
		}
	}

	return issues
}
