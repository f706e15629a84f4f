package segment

import (
	"reflect"
	"testing"
)

func TestStructure_TwoQuestions(t *testing.T) {
	raw := "Q1. A\n- x\n- y\nQ2. B\n- z"

	got := Structure(raw)
	want := []string{"Q1. A\n- x\n- y", "Q2. B\n- z"}
	if !reflect.DeepEqual(got.Chunks, want) {
		t.Errorf("chunks = %q, want %q", got.Chunks, want)
	}
	if got.Raw != raw {
		t.Errorf("raw = %q, want %q", got.Raw, raw)
	}
}

func TestStructure_NoMarkers(t *testing.T) {
	raw := "just some text\nspread over\nthree lines"

	got := Structure(raw)
	if len(got.Chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got.Chunks))
	}
	if got.Chunks[0] != raw {
		t.Errorf("chunk = %q, want %q", got.Chunks[0], raw)
	}
}

func TestStructure_Empty(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "   \n\t\n"} {
		got := Structure(raw)
		if got.Chunks != nil {
			t.Errorf("Structure(%q).Chunks = %v, want nil", raw, got.Chunks)
		}
	}
}

func TestStructure_PreambleBecomesFirstChunk(t *testing.T) {
	raw := "Survey about colors\nDraft v2\nQ1. Color?\n- Red\nQ2. Why?"

	got := Structure(raw)
	want := []string{"Survey about colors\nDraft v2", "Q1. Color?\n- Red", "Q2. Why?"}
	if !reflect.DeepEqual(got.Chunks, want) {
		t.Errorf("chunks = %q, want %q", got.Chunks, want)
	}
}

func TestStructure_TrimsAndDropsEmptyLines(t *testing.T) {
	raw := "  Q1. A  \n\n   - x\t\n\nQ2. B\n"

	got := Structure(raw)
	want := []string{"Q1. A\n- x", "Q2. B"}
	if !reflect.DeepEqual(got.Chunks, want) {
		t.Errorf("chunks = %q, want %q", got.Chunks, want)
	}
}

func TestIsMarker(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Q1. Color?", true},
		{"1. Color?", true},
		{"2) Why?", true},
		{"Q10) Long?", true},
		{"Q1.Color?", false},  // no whitespace after the separator
		{"A1. Color?", false}, // letter other than Q
		{"Q. Color?", false},  // no digits
		{"- Red", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMarker(tt.line); got != tt.want {
			t.Errorf("IsMarker(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestStructure_Idempotent(t *testing.T) {
	raw := "Q1. A\n- x\nQ2. B"

	first := Structure(raw)
	second := Structure(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running Structure changed output: %v vs %v", first, second)
	}
}
