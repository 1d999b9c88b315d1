package recipes

import "testing"

func fptr(f float64) *float64 { return &f }

func timedRecipe(title string, spans ...[2]float64) Recipe {
	r := Recipe{Title: title}
	for i, span := range spans {
		r.Instructions = append(r.Instructions, Instruction{
			Step:             i + 1,
			Text:             "step",
			TimestampSeconds: fptr(span[0]),
			EndTimeSeconds:   fptr(span[1]),
		})
	}
	return r
}

func TestIsDuplicate_TitleMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "Carbonara", "Carbonara", true},
		{"case and punctuation", "Pasta alla Gricia!", "pasta alla gricia", true},
		{"different dishes", "Carbonara", "Tiramisu", false},
		{"both empty titles", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicate(Recipe{Title: tt.a}, Recipe{Title: tt.b}); got != tt.want {
				t.Errorf("isDuplicate(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsDuplicate_TimeRangeOverlap(t *testing.T) {
	// Same step count, same span: duplicate despite different titles.
	a := timedRecipe("Grandma's Sauce", [2]float64{10, 60}, [2]float64{60, 120})
	b := timedRecipe("Tomato Sauce", [2]float64{15, 65}, [2]float64{65, 118})
	if !isDuplicate(a, b) {
		t.Error("expected overlap duplicate")
	}

	// Disjoint parts of the video: two different dishes.
	c := timedRecipe("Tomato Sauce", [2]float64{400, 450}, [2]float64{450, 500})
	if isDuplicate(a, c) {
		t.Error("disjoint ranges must not be duplicates")
	}

	// Different step counts never match by range.
	d := timedRecipe("Tomato Sauce", [2]float64{10, 120})
	if isDuplicate(a, d) {
		t.Error("different step counts must not be duplicates")
	}

	// No timestamps at all: range rule cannot apply.
	e := Recipe{Title: "Mystery A", Instructions: []Instruction{{Step: 1, Text: "x"}, {Step: 2, Text: "y"}}}
	f := Recipe{Title: "Mystery B", Instructions: []Instruction{{Step: 1, Text: "x"}, {Step: 2, Text: "y"}}}
	if isDuplicate(e, f) {
		t.Error("untimed recipes with different titles must not be duplicates")
	}
}

func TestRangeOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     float64
		want                           float64
	}{
		{"identical", 0, 100, 0, 100, 1},
		{"half of smaller", 0, 100, 50, 150, 0.5},
		{"disjoint", 0, 100, 200, 300, 0},
		{"touching", 0, 100, 100, 200, 0},
		{"contained", 0, 100, 40, 60, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rangeOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.want {
				t.Errorf("rangeOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeCandidate_PrefersMoreComplete(t *testing.T) {
	partial := mkRecipe("Carbonara", 2)
	full := mkRecipe("Carbonara", 5)

	working := []Recipe{partial}
	if added := mergeCandidate(&working, full); added {
		t.Error("duplicate must not count as added")
	}
	if len(working) != 1 {
		t.Fatalf("working set grew to %d", len(working))
	}
	if len(working[0].Instructions) != 5 {
		t.Errorf("kept %d steps, want the fuller 5", len(working[0].Instructions))
	}

	// The fuller version already present stays.
	if mergeCandidate(&working, partial) {
		t.Error("duplicate must not count as added")
	}
	if len(working[0].Instructions) != 5 {
		t.Errorf("fuller version was replaced by the partial one")
	}
}

func TestMergeCandidate_AppendsNew(t *testing.T) {
	working := []Recipe{mkRecipe("Carbonara", 3)}
	if !mergeCandidate(&working, mkRecipe("Tiramisu", 4)) {
		t.Error("new recipe should report added")
	}
	if len(working) != 2 {
		t.Errorf("working set = %d, want 2", len(working))
	}
}
