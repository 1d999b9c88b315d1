package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// currentDate returns today's date in ISO 8601 format (UTC).
func currentDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
// Calls are paced by the engine rate limiter when LLM_CALLS_PER_MINUTE is set.
func CallLLM(ctx context.Context, system, prompt string) (string, error) {
	if llmLimiter != nil {
		if err := llmLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	metrics.LLMCalls.Add(1)
	resp, err := cfg.LLMClient.Complete(ctx, system, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// BuildExtractionPrompt assembles the extraction prompt for one pass.
// knownTitles lists recipes already captured so continuation passes can tell
// the model not to re-emit them; pass nil on a fresh first pass.
func BuildExtractionPrompt(title, url, uploadDate, description string, knownTitles []string, transcript string) string {
	known := ""
	if len(knownTitles) > 0 {
		known = fmt.Sprintf(knownRecipesSection, "- "+strings.Join(knownTitles, "\n- "))
	}
	return fmt.Sprintf(ExtractPrompt,
		currentDate(), title, url, uploadDate,
		TruncateRunes(description, 200, "..."),
		known, transcript)
}

// ExtractJSONObject extracts a complete JSON object starting at the first '{'
// in s by tracking brace depth. LLMs sometimes wrap JSON in prose despite
// instructions; this salvages the object. Returns "" if no balanced object exists.
func ExtractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	b := s[start:]
	depth := 0
	inStr := false
	var prev byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return ""
}
