package recipeserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_recipes/internal/engine"
	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/anatolykoptev/go_recipes/internal/engine/sources"
	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerExtract(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_extract",
		Description: "Extract all recipes from a YouTube cooking video. Fetches the transcript, runs iterative LLM extraction until no new recipes appear, and saves the result as a new version. Returns structured recipes with ingredients, timestamped steps, and video references.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, *ExtractOutput, error) {
		out, err := runExtraction(ctx, input, false)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

func registerContinue(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_continue",
		Description: "Continue extraction for a video that already has recipes. Seeds the run with the current version so the model hunts for recipes it missed, then saves a new version containing the combined set.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, *ExtractOutput, error) {
		out, err := runExtraction(ctx, input, true)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

// runExtraction is the shared pipeline behind recipe_extract and
// recipe_continue: transcript acquisition, iterative extraction,
// post-processing, and version save.
func runExtraction(ctx context.Context, input ExtractInput, continuation bool) (*ExtractOutput, error) {
	videoID, err := resolveVideoID(input.Video)
	if err != nil {
		return nil, err
	}
	store, err := getStore()
	if err != nil {
		return nil, err
	}

	art, err := loadOrFetchArtifact(ctx, store, videoID)
	if err != nil {
		return nil, toolError(videoID, err)
	}

	segs, err := store.ResolveTranscript(ctx, videoID, art)
	if err != nil {
		return nil, toolError(videoID, err)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("video %s: no transcript available", videoID)
	}

	if err := ensureMigrated(ctx, store, videoID); err != nil {
		return nil, toolError(videoID, err)
	}

	var existing []recipes.Recipe
	gen := recipes.GenerationInitial
	if continuation {
		cur, err := store.LoadCurrentVersion(ctx, videoID)
		if err != nil && !errors.Is(err, recipes.ErrNotFound) {
			return nil, toolError(videoID, err)
		}
		if cur != nil {
			existing = cur.Recipe.Recipes
		}
		gen = recipes.GenerationContinuation
	}

	opts := recipes.ExtractOptions{
		Model:         input.Model,
		Temperature:   effectiveTemperature(input),
		MaxIterations: input.MaxIterations,
	}

	runCtx, cancel := context.WithTimeout(ctx, engine.Cfg.ExtractionTimeout)
	defer cancel()

	var result *recipes.ExtractResult
	err = engine.TrackOperation(runCtx, "extract_all", func(ctx context.Context) error {
		var exErr error
		result, exErr = recipes.ExtractAll(ctx, recipes.LLMExtractor{}, art.Meta,
			transcript.TimestampedText(segs), input.Prompt, existing, opts)
		return exErr
	})
	if err != nil {
		return nil, toolError(videoID, err)
	}

	doc := result.Recipes
	recipes.AddVideoReferences(&doc, segs)
	recipes.PredictStepTimes(&doc, float64(art.Meta.Duration))

	info, err := store.SaveNewVersion(ctx, videoID, doc, versionFields(input, gen))
	if err != nil {
		return nil, toolError(videoID, err)
	}

	slog.Info("extraction complete",
		slog.String("video_id", videoID),
		slog.Int("version", info.Version),
		slog.Int("recipes", len(doc.Recipes)),
		slog.Int("iterations", result.Iterations))

	return &ExtractOutput{
		VideoID:    videoID,
		Version:    *info,
		Iterations: result.Iterations,
		Recipes:    doc.Recipes,
	}, nil
}

// loadOrFetchArtifact returns the cached metadata+transcript for a video,
// fetching and caching it on first use.
func loadOrFetchArtifact(ctx context.Context, store *recipes.VersionStore, videoID string) (*recipes.VideoArtifact, error) {
	art, err := store.LoadVideoArtifact(ctx, videoID)
	if err == nil {
		return art, nil
	}
	if !errors.Is(err, recipes.ErrNotFound) {
		return nil, err
	}

	data, err := sources.FetchVideo(ctx, videoID, engine.Cfg.TranscriptLangs)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	art = &recipes.VideoArtifact{
		Meta: data.Meta,
		Transcript: transcript.Cached{
			PlainText: transcript.PlainText(transcript.FromCues(data.Cues)),
			Segments:  data.Cues,
		},
	}
	if err := store.SaveVideoArtifact(ctx, videoID, art); err != nil {
		// The transcript is still usable this run; only the cache write failed.
		slog.Warn("artifact cache write failed", slog.String("video_id", videoID), slog.Any("err", err))
	}
	return art, nil
}

// effectiveTemperature resolves the per-call override against the configured
// default. The input field is a pointer so an explicit 0 stays an override.
func effectiveTemperature(input ExtractInput) float64 {
	if input.Temperature != nil {
		return *input.Temperature
	}
	return engine.Cfg.LLMTemperature
}

func versionFields(input ExtractInput, gen recipes.GenerationType) recipes.VersionFields {
	model := input.Model
	if model == "" {
		model = engine.Cfg.LLMModel
	}
	prompt := input.Prompt
	if prompt == "" {
		prompt = "default"
	}
	return recipes.VersionFields{
		PromptUsed:     prompt,
		Model:          model,
		Temperature:    effectiveTemperature(input),
		GenerationType: gen,
	}
}
