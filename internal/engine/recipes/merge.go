package recipes

import (
	"github.com/anatolykoptev/go_recipes/internal/engine"
)

// minRangeOverlap is the fraction of the smaller instruction time range that
// must be covered by the intersection for two recipes to count as the same
// dish demonstrated in the same part of the video.
const minRangeOverlap = 0.5

// mergeCandidate merges cand into the working set. Duplicates are never
// appended; when a duplicate is more complete than the recipe it matches,
// it replaces it in place. Reports whether cand was added as new.
func mergeCandidate(working *[]Recipe, cand Recipe) bool {
	for i := range *working {
		if isDuplicate((*working)[i], cand) {
			if moreComplete(cand, (*working)[i]) {
				(*working)[i] = cand
			}
			return false
		}
	}
	*working = append(*working, cand)
	return true
}

// isDuplicate reports whether two recipes describe the same dish: matching
// normalized titles, or the same instruction-step count over substantially
// overlapping transcript time ranges.
func isDuplicate(a, b Recipe) bool {
	ka, kb := engine.CanonicalRecipeKey(a.Title), engine.CanonicalRecipeKey(b.Title)
	if ka != "" && ka == kb {
		return true
	}
	if len(a.Instructions) == 0 || len(a.Instructions) != len(b.Instructions) {
		return false
	}
	aStart, aEnd, aOK := timeRange(a)
	bStart, bEnd, bOK := timeRange(b)
	if !aOK || !bOK {
		return false
	}
	return rangeOverlap(aStart, aEnd, bStart, bEnd) >= minRangeOverlap
}

// timeRange returns the span covered by a recipe's instruction timestamps.
func timeRange(r Recipe) (start, end float64, ok bool) {
	for _, in := range r.Instructions {
		if in.TimestampSeconds == nil {
			continue
		}
		t := *in.TimestampSeconds
		e := t
		if in.EndTimeSeconds != nil {
			e = *in.EndTimeSeconds
		}
		if !ok || t < start {
			start = t
		}
		if !ok || e > end {
			end = e
		}
		ok = true
	}
	return start, end, ok
}

// rangeOverlap returns the intersection of [aStart,aEnd] and [bStart,bEnd]
// as a fraction of the smaller span.
func rangeOverlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	smaller := min(aEnd-aStart, bEnd-bStart)
	if smaller <= 0 {
		// Point ranges that intersect are a full overlap.
		return 1
	}
	return (hi - lo) / smaller
}

// moreComplete prefers the recipe with the fuller instruction list: more
// steps, then more instruction text, then more ingredients.
func moreComplete(a, b Recipe) bool {
	if len(a.Instructions) != len(b.Instructions) {
		return len(a.Instructions) > len(b.Instructions)
	}
	if ta, tb := textLen(a), textLen(b); ta != tb {
		return ta > tb
	}
	return len(a.Ingredients) > len(b.Ingredients)
}

func textLen(r Recipe) int {
	n := 0
	for _, in := range r.Instructions {
		n += len(in.Text) + len(in.Notes)
	}
	return n
}
