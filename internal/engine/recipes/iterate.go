package recipes

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/anatolykoptev/go_recipes/internal/engine"
)

// defaultMaxIterations caps extraction loops when neither the caller nor the
// engine config sets a limit.
const defaultMaxIterations = 5

// ExtractAll drives repeated extractor passes over one transcript, merging
// each batch into a working set seeded with existing recipes, until an
// iteration yields nothing new or the iteration cap is reached. The loop is
// strictly sequential: each pass sees the merged state of all prior passes
// so the model can avoid re-emitting known recipes.
//
// A transport failure aborts the whole run — nothing merged in earlier
// iterations of this run survives to the caller. A malformed batch counts as
// an empty one and the loop keeps going (the extractor is non-deterministic;
// the next pass may parse fine); it is fatal only when every iteration was
// malformed.
func ExtractAll(ctx context.Context, ex Extractor, video VideoContext, transcriptText, prompt string,
	existing []Recipe, opts ExtractOptions) (*ExtractResult, error) {

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = engine.Cfg.MaxIterations
	}
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	engine.IncrExtractionRuns()

	working := slices.Clone(existing)
	iterations := 0
	malformed := 0
	var lastMalformed error

	for i := 1; i <= maxIter; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations = i
		engine.IncrExtractionIterations()

		batch, err := ex.Extract(ctx, video, transcriptText, prompt, working, opts)
		if err != nil {
			if !errors.Is(err, ErrMalformedBatch) {
				return nil, &ExtractorError{Iteration: i, Err: err}
			}
			malformed++
			lastMalformed = err
			engine.IncrMalformedBatches()
			slog.Warn("extractor batch malformed, treating as empty",
				slog.String("video_id", video.ID), slog.Int("iteration", i))
			continue
		}

		added := 0
		for _, cand := range batch {
			if mergeCandidate(&working, cand) {
				added++
			}
		}
		slog.Debug("extraction iteration",
			slog.String("video_id", video.ID),
			slog.Int("iteration", i),
			slog.Int("batch", len(batch)),
			slog.Int("new", added),
			slog.Int("total", len(working)),
		)

		if added == 0 {
			break // converged
		}
	}

	if malformed == iterations && malformed > 0 {
		return nil, lastMalformed
	}

	return &ExtractResult{
		Recipes:    VideoRecipes{Recipes: working},
		Iterations: iterations,
	}, nil
}
