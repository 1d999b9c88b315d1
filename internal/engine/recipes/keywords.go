package recipes

import (
	"sort"
	"strings"

	"github.com/kljensen/snowball"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/anatolykoptev/go_recipes/internal/engine"
	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
)

// Keyword search over transcript segments: each instruction step carries
// keyword lists (ingredients/techniques/equipment); matching them against
// the timed segments yields video references that anchor the step in the
// video.

// stopwords are too generic to be useful as search keywords.
var stopwords = map[string]bool{
	// generic verbs that match too broadly
	"form": true, "place": true, "put": true, "add": true, "make": true,
	"take": true, "get": true, "use": true, "set": true, "turn": true,
	"let": true, "give": true, "keep": true, "bring": true, "start": true,
	"try": true, "want": true,
	// common cooking terms too vague without context
	"top": true, "side": true, "bit": true, "way": true, "time": true,
	"thing": true, "part": true, "end": true,
}

// dedupWindowSeconds collapses repeat matches of the same keyword within a
// short span into one reference.
const dedupWindowSeconds = 3

// SearchKeywords finds keyword occurrences in the segments and returns
// references sorted by timestamp. Stopword keywords are skipped; repeat
// matches of a keyword within the dedup window are dropped.
func SearchKeywords(segs []transcript.Segment, keywords []string) []VideoReference {
	var matches []VideoReference
	seen := make(map[string][]int) // keyword → matched timestamps

	for _, keyword := range keywords {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" || stopwords[kw] {
			continue
		}

		for i, seg := range segs {
			if !segmentContains(seg.Text, kw) {
				continue
			}
			ts := int(seg.Start)

			dup := false
			for _, prev := range seen[kw] {
				if abs(ts-prev) <= dedupWindowSeconds {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			seen[kw] = append(seen[kw], ts)

			matches = append(matches, VideoReference{
				Keyword:          keyword,
				TimestampSeconds: ts,
				Context:          buildContext(segs, i, kw),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].TimestampSeconds < matches[j].TimestampSeconds
	})
	return matches
}

// AddVideoReferences attaches keyword matches to every instruction step of
// every recipe in the document.
func AddVideoReferences(doc *VideoRecipes, segs []transcript.Segment) {
	for ri := range doc.Recipes {
		for si := range doc.Recipes[ri].Instructions {
			in := &doc.Recipes[ri].Instructions[si]
			var all []string
			if in.Keywords != nil {
				all = append(all, in.Keywords.Ingredients...)
				all = append(all, in.Keywords.Techniques...)
				all = append(all, in.Keywords.Equipment...)
			}
			if len(all) > 0 {
				in.VideoReferences = SearchKeywords(segs, all)
			} else {
				in.VideoReferences = []VideoReference{}
			}
		}
	}
}

// fuzzyMatchRatio is the minimum Levenshtein similarity for two stems to
// count as the same word.
const fuzzyMatchRatio = 0.8

// segmentContains reports whether the keyword occurs in the segment text.
// Tokens are compared by stem so "slice" finds "slicing", with a
// Levenshtein-ratio fallback for near misses. Multi-word keywords match as
// a consecutive run of stemmed tokens, then as a raw substring.
func segmentContains(text, kw string) bool {
	toks := tokenize(text)
	words := strings.Fields(kw)
	if len(words) <= 1 {
		want := stemWord(kw)
		for _, tok := range toks {
			if tokenMatches(tok, want) {
				return true
			}
		}
		return false
	}

	want := make([]string, len(words))
	for i, w := range words {
		want[i] = stemWord(w)
	}
	stems := make([]string, len(toks))
	for i, tok := range toks {
		stems[i] = stemWord(tok)
	}
	for i := 0; i+len(want) <= len(stems); i++ {
		run := true
		for j := range want {
			if stems[i+j] != want[j] {
				run = false
				break
			}
		}
		if run {
			return true
		}
	}
	return strings.Contains(strings.ToLower(text), kw)
}

// tokenMatches compares a token to a stemmed keyword, exact stems first.
func tokenMatches(tok, wantStem string) bool {
	stem := stemWord(tok)
	if stem == wantStem {
		return true
	}
	longer := max(len(stem), len(wantStem))
	if longer == 0 {
		return false
	}
	dist := fuzzy.LevenshteinDistance(stem, wantStem)
	return 1-float64(dist)/float64(longer) >= fuzzyMatchRatio
}

// stemWord reduces a word to its snowball stem; unstemable input passes
// through unchanged.
func stemWord(w string) string {
	s, err := snowball.Stem(w, "english", false)
	if err != nil {
		return w
	}
	return s
}

// tokenize splits lowercased text into word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r <= 127
	})
}

// buildContext joins the neighbouring segments' text and trims it to a
// window around the keyword.
func buildContext(segs []transcript.Segment, i int, kw string) string {
	var parts []string
	if i > 0 {
		parts = append(parts, segs[i-1].Text)
	}
	parts = append(parts, segs[i].Text)
	if i < len(segs)-1 {
		parts = append(parts, segs[i+1].Text)
	}
	context := strings.Join(parts, " ")
	if len(context) <= 100 {
		return context
	}

	idx := strings.Index(strings.ToLower(context), kw)
	if idx < 0 {
		return engine.Truncate(context, 100) + "..."
	}
	start := max(0, idx-40)
	end := min(len(context), idx+len(kw)+40)
	out := context[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(context) {
		out += "..."
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
