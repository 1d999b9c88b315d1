// go_recipes — Recipe Extraction MCP server.
//
// Extracts structured recipes from cooking-video transcripts with an LLM,
// stores every extraction as an immutable numbered version per video, and
// exposes the pipeline as MCP tools: recipe_extract, recipe_continue,
// recipe_get, recipe_versions, recipe_version_switch, recipe_edit.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_recipes/internal/engine"
	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/anatolykoptev/go_recipes/internal/recipeserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_recipes",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_recipes",
		Version: version,
	}, nil)

	recipeserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 6))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_recipes",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 16384),
		LLMCallsPerMinute:  env.Int("LLM_CALLS_PER_MINUTE", 30),
		MaxIterations:      env.Int("MAX_ITERATIONS", 5),
		ExtractionTimeout:  env.Duration("EXTRACTION_TIMEOUT", 5*time.Minute),
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en"),
		CacheMaxEntries:    env.Int("CACHE_MAX_ENTRIES", 1000),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
	)

	engine.Init(c)

	store, err := openBlobStore()
	if err != nil {
		slog.Error("blob store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	recipes.SetStore(recipes.NewVersionStore(store))

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries,
		env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second))
}

// openBlobStore picks the blob backend from the environment:
// DATABASE_URL → Postgres, RECIPES_DB → SQLite, otherwise local filesystem.
func openBlobStore() (recipes.BlobStore, error) {
	if dbURL := env.Str("DATABASE_URL", ""); dbURL != "" {
		store, err := recipes.ConnectPostgresBlobs(context.Background(), dbURL)
		if err != nil {
			return nil, err
		}
		slog.Info("blob store: postgres")
		return store, nil
	}
	if dbPath := env.Str("RECIPES_DB", ""); dbPath != "" {
		store, err := recipes.OpenSQLiteBlobs(dbPath)
		if err != nil {
			return nil, err
		}
		slog.Info("blob store: sqlite", slog.String("path", dbPath))
		return store, nil
	}
	dir := env.Str("RECIPES_DIR", "")
	store, err := recipes.OpenFSBlobs(dir)
	if err != nil {
		return nil, err
	}
	slog.Info("blob store: filesystem", slog.String("dir", store.Dir()))
	return store, nil
}
