package recipeserver

import (
	"testing"

	"github.com/anatolykoptev/go_recipes/internal/engine"
	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
)

func TestVersionFieldsTemperature(t *testing.T) {
	engine.Init(engine.Config{LLMModel: "default-model", LLMTemperature: 0.3})

	zero := 0.0
	half := 0.5
	tests := []struct {
		name string
		temp *float64
		want float64
	}{
		{"unset falls back to config", nil, 0.3},
		{"explicit zero is recorded as zero", &zero, 0},
		{"explicit override", &half, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := versionFields(ExtractInput{Temperature: tt.temp}, recipes.GenerationInitial)
			if fields.Temperature != tt.want {
				t.Errorf("temperature = %v, want %v", fields.Temperature, tt.want)
			}
			if fields.Model != "default-model" {
				t.Errorf("model = %q, want the configured default", fields.Model)
			}
			if fields.PromptUsed != "default" {
				t.Errorf("prompt = %q, want %q", fields.PromptUsed, "default")
			}
		})
	}
}

func TestGetStoreUnconfigured(t *testing.T) {
	recipes.SetStore(nil)
	if _, err := getStore(); err == nil {
		t.Fatal("expected an error when no store is configured")
	}
	recipes.SetStore(recipes.NewVersionStore(mustFSBlobs(t)))
	if _, err := getStore(); err != nil {
		t.Fatalf("unexpected error with a configured store: %v", err)
	}
}

func mustFSBlobs(t *testing.T) *recipes.FSBlobs {
	t.Helper()
	blobs, err := recipes.OpenFSBlobs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return blobs
}
