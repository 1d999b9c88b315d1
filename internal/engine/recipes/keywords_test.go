package recipes

import (
	"testing"

	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
)

func cookingSegs() []transcript.Segment {
	return []transcript.Segment{
		{ID: "seg-0", Start: 0, End: 4, Text: "welcome back to the kitchen"},
		{ID: "seg-1", Start: 10, End: 14, Text: "first we slice the guanciale"},
		{ID: "seg-2", Start: 12, End: 16, Text: "keep slicing the guanciale thin"},
		{ID: "seg-3", Start: 60, End: 64, Text: "now whisk the eggs with pecorino"},
		{ID: "seg-4", Start: 120, End: 124, Text: "the guanciale goes into the pan"},
	}
}

func TestSearchKeywords(t *testing.T) {
	refs := SearchKeywords(cookingSegs(), []string{"guanciale", "whisk"})

	// guanciale at 10 and 120 (the 12s hit is inside the dedup window of 10),
	// whisk at 60. Sorted by timestamp.
	if len(refs) != 3 {
		t.Fatalf("got %d references, want 3: %+v", len(refs), refs)
	}
	wantTS := []int{10, 60, 120}
	for i, ref := range refs {
		if ref.TimestampSeconds != wantTS[i] {
			t.Errorf("ref %d at %d, want %d", i, ref.TimestampSeconds, wantTS[i])
		}
	}
	if refs[1].Keyword != "whisk" {
		t.Errorf("middle ref keyword = %q", refs[1].Keyword)
	}
	if refs[0].Context == "" {
		t.Error("expected non-empty context")
	}
}

func TestSearchKeywords_Stopwords(t *testing.T) {
	segs := []transcript.Segment{{Start: 5, Text: "add the salt and put the lid on top"}}
	refs := SearchKeywords(segs, []string{"add", "put", "top", "salt"})
	if len(refs) != 1 || refs[0].Keyword != "salt" {
		t.Errorf("stopwords should be skipped, got %+v", refs)
	}
}

func TestSearchKeywords_WholeWordMatch(t *testing.T) {
	segs := []transcript.Segment{{Start: 5, Text: "scallions on the side"}}
	if refs := SearchKeywords(segs, []string{"scall"}); len(refs) != 0 {
		t.Errorf("partial token must not match, got %+v", refs)
	}
	if refs := SearchKeywords(segs, []string{"scallions"}); len(refs) != 1 {
		t.Errorf("whole token should match, got %+v", refs)
	}
}

func TestSearchKeywords_StemmedMatch(t *testing.T) {
	segs := []transcript.Segment{{Start: 12, Text: "keep slicing the pancetta thin"}}
	if refs := SearchKeywords(segs, []string{"slice"}); len(refs) != 1 {
		t.Errorf("stem of 'slicing' should match 'slice', got %+v", refs)
	}
	segs = []transcript.Segment{{Start: 3, Text: "she whisks the eggs briskly"}}
	if refs := SearchKeywords(segs, []string{"whisking"}); len(refs) != 1 {
		t.Errorf("'whisking' should match 'whisks' by stem, got %+v", refs)
	}
	if refs := SearchKeywords(segs, []string{"braise"}); len(refs) != 0 {
		t.Errorf("unrelated keyword must not match, got %+v", refs)
	}
}

func TestSearchKeywords_FuzzyNearMiss(t *testing.T) {
	segs := []transcript.Segment{{Start: 8, Text: "add the pancetta to the pan"}}
	if refs := SearchKeywords(segs, []string{"panceta"}); len(refs) != 1 {
		t.Errorf("one-letter near miss should match, got %+v", refs)
	}
	if refs := SearchKeywords(segs, []string{"polenta"}); len(refs) != 0 {
		t.Errorf("different ingredient must not fuzzy-match, got %+v", refs)
	}
}

func TestSearchKeywords_PhraseMatch(t *testing.T) {
	segs := []transcript.Segment{{Start: 5, Text: "bring it to a rolling boil now"}}
	if refs := SearchKeywords(segs, []string{"rolling boil"}); len(refs) != 1 {
		t.Errorf("phrase should substring-match, got %+v", refs)
	}
}

func TestAddVideoReferences(t *testing.T) {
	doc := VideoRecipes{Recipes: []Recipe{{
		Title: "Carbonara",
		Instructions: []Instruction{
			{Step: 1, Text: "slice the guanciale", Keywords: &Keywords{
				Ingredients: []string{"guanciale"},
				Techniques:  []string{"slice"},
			}},
			{Step: 2, Text: "plate it"},
		},
	}}}

	AddVideoReferences(&doc, cookingSegs())

	first := doc.Recipes[0].Instructions[0]
	if len(first.VideoReferences) == 0 {
		t.Fatal("expected references on step with keywords")
	}
	second := doc.Recipes[0].Instructions[1]
	if second.VideoReferences == nil || len(second.VideoReferences) != 0 {
		t.Errorf("step without keywords should get empty non-nil references, got %+v", second.VideoReferences)
	}
}
