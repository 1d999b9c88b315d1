package recipeserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerEdit(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recipe_edit",
		Description: "Replace the recipes for a video with an edited set. Saves the edit as a new version (generation type manual-edit) and makes it current; earlier versions stay available.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input EditInput) (*mcp.CallToolResult, *GetOutput, error) {
		videoID, err := resolveVideoID(input.Video)
		if err != nil {
			return nil, nil, err
		}
		if len(input.Recipes) == 0 {
			return nil, nil, fmt.Errorf("recipes is required")
		}
		store, err := getStore()
		if err != nil {
			return nil, nil, err
		}

		if err := ensureMigrated(ctx, store, videoID); err != nil {
			return nil, nil, toolError(videoID, err)
		}
		doc, err := store.UpdateCurrentVersion(ctx, videoID, func(recipes.VideoRecipes) recipes.VideoRecipes {
			return recipes.VideoRecipes{Recipes: input.Recipes}
		})
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
