// Package recipes holds the recipe domain model, the iterative extraction
// engine, and the versioned document store.
package recipes

import (
	"encoding/json"
	"time"

	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
)

// Keywords are per-step search terms used to locate the step in the video.
type Keywords struct {
	Ingredients []string `json:"ingredients,omitempty"`
	Techniques  []string `json:"techniques,omitempty"`
	Equipment   []string `json:"equipment,omitempty"`
}

// Ingredient is one ingredient with human-style quantities.
type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// VideoReference is one keyword match in the transcript with its context.
type VideoReference struct {
	Keyword          string `json:"keyword"`
	TimestampSeconds int    `json:"timestamp_seconds"`
	Context          string `json:"context"`
}

// Instruction is one numbered recipe step. Step numbers are 1-based and
// contiguous within a recipe; TimestampSeconds never exceeds EndTimeSeconds
// when both are set.
type Instruction struct {
	Step             int              `json:"step"`
	Text             string           `json:"text"`
	TimestampSeconds *float64         `json:"timestamp_seconds,omitempty"`
	EndTimeSeconds   *float64         `json:"end_time_seconds,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Keywords         *Keywords        `json:"keywords,omitempty"`
	VideoReferences  []VideoReference `json:"video_references,omitempty"`
}

// UnmarshalJSON accepts both the canonical object form and the legacy flat
// form where an instruction is a bare string without a step number.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = Instruction{Text: s}
		return nil
	}
	type plain Instruction
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*in = Instruction(p)
	return nil
}

// Recipe is one extracted dish.
type Recipe struct {
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Servings     int           `json:"servings,omitempty"`
	DietaryTags  []string      `json:"dietary_tags,omitempty"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
}

// VideoRecipes is the per-video recipe document — the unit of versioning.
type VideoRecipes struct {
	Recipes []Recipe `json:"recipes"`
}

// GenerationType records how a version came to exist.
type GenerationType string

const (
	GenerationInitial      GenerationType = "initial"
	GenerationContinuation GenerationType = "continuation"
	GenerationManualEdit   GenerationType = "manual-edit"
	GenerationMigrated     GenerationType = "migrated"
)

// VersionInfo is the metadata of one immutable version.
type VersionInfo struct {
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	PromptUsed     string         `json:"prompt_used"`
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	GenerationType GenerationType `json:"generation_type"`
}

// VersionedDocument pairs a recipe document with its version metadata.
// Immutable once written.
type VersionedDocument struct {
	VersionInfo VersionInfo  `json:"version_info"`
	Recipe      VideoRecipes `json:"recipe"`
}

// VersionFields are the caller-supplied metadata for a new version.
type VersionFields struct {
	PromptUsed     string
	Model          string
	Temperature    float64
	GenerationType GenerationType
}

// VideoContext is the video metadata fed into the extraction prompt.
type VideoContext struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	UploadDate  string `json:"upload_date,omitempty"`
	Channel     string `json:"channel,omitempty"`
	Duration    int    `json:"duration,omitempty"` // seconds
}

// VideoArtifact is the cached per-video metadata + transcript blob,
// written once on first fetch and immutable after.
type VideoArtifact struct {
	Meta       VideoContext      `json:"metadata"`
	Transcript transcript.Cached `json:"transcript"`
}

// ExtractOptions tunes one extraction run.
type ExtractOptions struct {
	Model         string
	Temperature   float64
	MaxIterations int
}

// ExtractResult is the outcome of one iterative extraction run.
type ExtractResult struct {
	Recipes    VideoRecipes `json:"recipes"`
	Iterations int          `json:"iterations"`
}
