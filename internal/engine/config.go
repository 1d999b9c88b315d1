package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMCallsPerMinute  int           // 0 = unlimited
	MaxIterations      int           // default extraction iteration cap
	ExtractionTimeout  time.Duration // wall-clock cap on one extraction run
	TranscriptLangs    []string      // preferred caption languages, in order
	CacheMaxEntries    int
	HTTPClient         *http.Client
	LLMClient          *llm.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (recipes, sources, transcript).
// Always points to the current cfg value.
var Cfg = &cfg

// llmLimiter paces extraction calls so batch runs don't trip provider rate limits.
var llmLimiter *rate.Limiter

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg

	if c.LLMCallsPerMinute > 0 {
		llmLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.LLMCallsPerMinute)), 1)
	} else {
		llmLimiter = nil
	}
}
