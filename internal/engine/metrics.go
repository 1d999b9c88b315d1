package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ExtractionRuns       atomic.Int64
	ExtractionIterations atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
	MalformedBatches     atomic.Int64
	TranscriptFetches    atomic.Int64
	TranscriptErrors     atomic.Int64
	VersionsSaved        atomic.Int64
	LegacyMigrations     atomic.Int64
	ManualEdits          atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"extraction_runs":       metrics.ExtractionRuns.Load(),
		"extraction_iterations": metrics.ExtractionIterations.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
		"malformed_batches":     metrics.MalformedBatches.Load(),
		"transcript_fetches":    metrics.TranscriptFetches.Load(),
		"transcript_errors":     metrics.TranscriptErrors.Load(),
		"versions_saved":        metrics.VersionsSaved.Load(),
		"legacy_migrations":     metrics.LegacyMigrations.Load(),
		"manual_edits":          metrics.ManualEdits.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"extraction_runs", "extraction_iterations",
		"llm_calls", "llm_errors", "malformed_batches",
		"transcript_fetches", "transcript_errors",
		"versions_saved", "legacy_migrations", "manual_edits",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrExtractionRuns()       { metrics.ExtractionRuns.Add(1) }
func IncrExtractionIterations() { metrics.ExtractionIterations.Add(1) }
func IncrMalformedBatches()     { metrics.MalformedBatches.Add(1) }
func IncrTranscriptFetches()    { metrics.TranscriptFetches.Add(1) }
func IncrTranscriptErrors()     { metrics.TranscriptErrors.Add(1) }
func IncrVersionsSaved()        { metrics.VersionsSaved.Add(1) }
func IncrLegacyMigrations()     { metrics.LegacyMigrations.Add(1) }
func IncrManualEdits()          { metrics.ManualEdits.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
