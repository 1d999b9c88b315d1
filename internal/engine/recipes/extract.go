package recipes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anatolykoptev/go_recipes/internal/engine"
)

// Extractor is the external extraction capability: one pass over the
// transcript returning a batch of candidate recipes. Implementations are
// opaque and potentially non-deterministic; the iterative engine never
// assumes two calls agree.
type Extractor interface {
	Extract(ctx context.Context, video VideoContext, transcriptText, prompt string,
		known []Recipe, opts ExtractOptions) ([]Recipe, error)
}

// llmBatch is the JSON structure expected from the LLM per pass.
type llmBatch struct {
	HasRecipe *bool    `json:"has_recipe"`
	Recipes   []Recipe `json:"recipes"`
}

// LLMExtractor is the production Extractor backed by the configured LLM.
type LLMExtractor struct{}

// Extract runs one extraction pass. A transport/service failure is returned
// as-is (the engine aborts on it); a response that does not parse into a
// batch is reported as ErrMalformedBatch (the engine treats it as empty).
func (LLMExtractor) Extract(ctx context.Context, video VideoContext, transcriptText, prompt string,
	known []Recipe, _ ExtractOptions) ([]Recipe, error) {

	p := prompt
	if p == "" {
		knownTitles := make([]string, 0, len(known))
		for _, r := range known {
			knownTitles = append(knownTitles, r.Title)
		}
		p = engine.BuildExtractionPrompt(video.Title, video.URL, video.UploadDate,
			video.Description, knownTitles, transcriptText)
	}

	raw, err := engine.CallLLM(ctx, engine.ExtractSystemPrompt, p)
	if err != nil {
		return nil, err
	}

	batch, err := parseBatch(raw)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// parseBatch decodes one LLM response into a candidate batch.
// {"has_recipe": false} is a well-formed empty batch, not an error.
func parseBatch(raw string) ([]Recipe, error) {
	var batch llmBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		// Salvage a JSON object wrapped in prose before giving up.
		if obj := engine.ExtractJSONObject(raw); obj != "" {
			if err2 := json.Unmarshal([]byte(obj), &batch); err2 == nil {
				return batchRecipes(batch), nil
			}
		}
		snippet := engine.TruncateRunes(raw, 120, "...")
		return nil, fmt.Errorf("%w: %v (%q)", ErrMalformedBatch, err, snippet)
	}
	return batchRecipes(batch), nil
}

func batchRecipes(batch llmBatch) []Recipe {
	if batch.HasRecipe != nil && !*batch.HasRecipe {
		return nil
	}
	return batch.Recipes
}
