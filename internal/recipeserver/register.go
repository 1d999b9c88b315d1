// Package recipeserver exposes the recipe extraction engine and version
// store as MCP tools.
package recipeserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/anatolykoptev/go_recipes/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all recipe tools on the given MCP server:
// recipe_extract, recipe_continue, recipe_versions, recipe_get,
// recipe_version_switch, recipe_edit.
func RegisterTools(server *mcp.Server) {
	registerExtract(server)
	registerContinue(server)
	registerVersions(server)
	registerGet(server)
	registerVersionSwitch(server)
	registerEdit(server)
}

// getStore returns the shared version store, erroring instead of panicking
// when startup never wired one.
func getStore() (*recipes.VersionStore, error) {
	store := recipes.GetStore()
	if store == nil {
		return nil, errors.New("version store not initialized")
	}
	return store, nil
}

// resolveVideoID normalizes a URL or bare ID input to the canonical video ID.
func resolveVideoID(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("video is required")
	}
	id := sources.ExtractVideoID(raw)
	if id == "" {
		return "", fmt.Errorf("unrecognized video reference: %q", raw)
	}
	return id, nil
}

// ensureMigrated runs the lazy legacy migration before any read of the
// version history. Absence of both legacy and versioned documents is fine
// here; the caller's own load surfaces not-found.
func ensureMigrated(ctx context.Context, store *recipes.VersionStore, videoID string) error {
	legacy, err := store.IsLegacyFormat(ctx, videoID)
	if err != nil {
		return err
	}
	if !legacy {
		return nil
	}
	if err := store.MigrateFromLegacy(ctx, videoID); err != nil && !errors.Is(err, recipes.ErrNotFound) {
		return err
	}
	return nil
}

// toolError turns storage and extraction errors into messages that tell the
// caller which failure class they hit.
func toolError(videoID string, err error) error {
	var corrupt *recipes.CorruptDocumentError
	var extractor *recipes.ExtractorError
	switch {
	case errors.Is(err, recipes.ErrVersionNotFound):
		return fmt.Errorf("video %s: requested version does not exist", videoID)
	case errors.Is(err, recipes.ErrNotFound):
		return fmt.Errorf("video %s: no stored recipes", videoID)
	case errors.As(err, &corrupt):
		return fmt.Errorf("video %s: stored document is corrupt (%s)", videoID, corrupt.Key)
	case errors.As(err, &extractor):
		return fmt.Errorf("video %s: extraction failed on pass %d: %v", videoID, extractor.Iteration, extractor.Err)
	case errors.Is(err, recipes.ErrMalformedBatch):
		return fmt.Errorf("video %s: extractor returned malformed output on every pass", videoID)
	default:
		return fmt.Errorf("video %s: %w", videoID, err)
	}
}
