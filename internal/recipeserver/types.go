package recipeserver

import (
	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
)

// --- Tool input types ---

type ExtractInput struct {
	Video         string  `json:"video" jsonschema:"YouTube video URL or 11-character video ID"`
	Prompt        string  `json:"prompt,omitempty" jsonschema:"Custom extraction prompt replacing the default one"`
	Model         string  `json:"model,omitempty" jsonschema:"LLM model override"`
	Temperature   *float64 `json:"temperature,omitempty" jsonschema:"LLM temperature override"`
	MaxIterations int     `json:"max_iterations,omitempty" jsonschema:"Max extraction passes over the transcript (default: 5)"`
}

type VersionsInput struct {
	Video string `json:"video" jsonschema:"YouTube video URL or 11-character video ID"`
}

type GetInput struct {
	Video   string `json:"video" jsonschema:"YouTube video URL or 11-character video ID"`
	Version int    `json:"version,omitempty" jsonschema:"Specific version number (default: current)"`
}

type SwitchInput struct {
	Video   string `json:"video" jsonschema:"YouTube video URL or 11-character video ID"`
	Version int    `json:"version" jsonschema:"Version number to make current"`
}

type EditInput struct {
	Video   string           `json:"video" jsonschema:"YouTube video URL or 11-character video ID"`
	Recipes []recipes.Recipe `json:"recipes" jsonschema:"Full replacement recipe list for the video"`
}

// --- Tool output types ---

type ExtractOutput struct {
	VideoID    string              `json:"video_id"`
	Version    recipes.VersionInfo `json:"version"`
	Iterations int                 `json:"iterations"`
	Recipes    []recipes.Recipe    `json:"recipes"`
}

type VersionsOutput struct {
	VideoID  string                `json:"video_id"`
	Current  int                   `json:"current"`
	Versions []recipes.VersionInfo `json:"versions"`
}

type GetOutput struct {
	VideoID string              `json:"video_id"`
	Version recipes.VersionInfo `json:"version"`
	Recipes []recipes.Recipe    `json:"recipes"`
}

type SwitchOutput struct {
	VideoID string `json:"video_id"`
	Current int    `json:"current"`
}
