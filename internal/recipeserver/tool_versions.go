package recipeserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVersions(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_versions",
		Description: "List all saved recipe versions for a video with their metadata (creation time, prompt, model, generation type) and which one is current.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VersionsInput) (*mcp.CallToolResult, *VersionsOutput, error) {
		videoID, err := resolveVideoID(input.Video)
		if err != nil {
			return nil, nil, err
		}
		store, err := getStore()
		if err != nil {
			return nil, nil, err
		}

		if err := ensureMigrated(ctx, store, videoID); err != nil {
			return nil, nil, toolError(videoID, err)
		}
		current, err := store.CurrentVersion(ctx, videoID)
		if err != nil {
			return nil, nil, toolError(videoID, err)
		}
		infos, err := store.ListVersions(ctx, videoID)
		if err != nil {
			return nil, nil, toolError(videoID, err)
		}
		return nil, &VersionsOutput{VideoID: videoID, Current: current, Versions: infos}, nil
	})
}

func registerGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_get",
		Description: "Get the recipes for a video: the current version by default, or a specific version number.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, *GetOutput, error) {
		videoID, err := resolveVideoID(input.Video)
		if err != nil {
			return nil, nil, err
		}
		store, err := getStore()
		if err != nil {
			return nil, nil, err
		}

		if err := ensureMigrated(ctx, store, videoID); err != nil {
			return nil, nil, toolError(videoID, err)
		}

		var doc *recipes.VersionedDocument
		if input.Version > 0 {
			doc, err = store.LoadVersion(ctx, videoID, input.Version)
		} else {
			doc, err = store.LoadCurrentVersion(ctx, videoID)
		}
		if err != nil {
			return nil, nil, toolError(videoID, err)
		}
		return nil, &GetOutput{
			VideoID: videoID,
			Version: doc.VersionInfo,
			Recipes: doc.Recipe.Recipes,
		}, nil
	})
}

func registerVersionSwitch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_version_switch",
		Description: "Make an existing version the current one. History is untouched; only the current pointer moves.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SwitchInput) (*mcp.CallToolResult, *SwitchOutput, error) {
		videoID, err := resolveVideoID(input.Video)
		if err != nil {
			return nil, nil, err
		}
		if input.Version < 1 {
			return nil, nil, fmt.Errorf("version must be >= 1")
		}
		store, err := getStore()
		if err != nil {
			return nil, nil, err
		}

		if err := ensureMigrated(ctx, store, videoID); err != nil {
			return nil, nil, toolError(videoID, err)
		}
		if err := store.SetCurrentVersion(ctx, videoID, input.Version); err != nil {
			return nil, nil, toolError(videoID, err)
		}
		return nil, &SwitchOutput{VideoID: videoID, Current: input.Version}, nil
	})
}
