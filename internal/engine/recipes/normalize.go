package recipes

import "strings"

// NormalizeRecipes converts any legacy in-memory shape into the canonical
// one: contiguous 1-based step numbers, ordered timestamps, trimmed titles,
// deduplicated dietary tags, non-nil slices. Pure and idempotent — applying
// it twice yields the same result as once. Every document passes through
// here before it is written.
func NormalizeRecipes(doc VideoRecipes) VideoRecipes {
	out := VideoRecipes{Recipes: make([]Recipe, 0, len(doc.Recipes))}
	for _, r := range doc.Recipes {
		out.Recipes = append(out.Recipes, normalizeRecipe(r))
	}
	return out
}

func normalizeRecipe(r Recipe) Recipe {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.DietaryTags = dedupeTags(r.DietaryTags)

	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}

	steps := make([]Instruction, 0, len(r.Instructions))
	for i, in := range r.Instructions {
		in.Step = i + 1 // renumber: contiguous from 1, input order wins
		in.Text = strings.TrimSpace(in.Text)

		// timestamp_seconds ≤ end_time_seconds when both present
		if in.TimestampSeconds != nil && in.EndTimeSeconds != nil && *in.EndTimeSeconds < *in.TimestampSeconds {
			in.TimestampSeconds, in.EndTimeSeconds = in.EndTimeSeconds, in.TimestampSeconds
		}
		steps = append(steps, in)
	}
	r.Instructions = steps
	return r
}

// dedupeTags normalizes tags (trim, lowercase) and drops duplicates,
// preserving first-occurrence order.
func dedupeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
