package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// WebVTT cue parsing. Blocks look like:
//
//	00:00:05.279 --> 00:00:07.030
//	take your guanciale
//	<c>and slice it</c>
//
// Auto-generated YouTube captions add inline word timings
// (<00:00:05.520><c>and</c>) which are stripped along with all other tags.

var (
	cueTimeRe   = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d{3})`)
	vttTagRe    = regexp.MustCompile(`<[^>]+>`)
	manySpaceRe = regexp.MustCompile(`\s+`)
)

// ParseVTT parses a raw caption track into ordered segments.
// Blocks with unparsable timestamps are skipped, not fatal.
func ParseVTT(raw string) []Segment {
	lines := strings.Split(raw, "\n")
	var segs []Segment

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		m := cueTimeRe.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}

		start, errStart := parseCueTime(m[1])
		end, errEnd := parseCueTime(m[2])

		// Collect the block's text lines regardless, so a skipped block
		// doesn't leak its text into the next cue.
		i++
		var textLines []string
		for i < len(lines) {
			t := strings.TrimSpace(lines[i])
			if t == "" || cueTimeRe.MatchString(t) {
				break
			}
			textLines = append(textLines, t)
			i++
		}

		if errStart != nil || errEnd != nil {
			continue
		}

		text := cleanCueText(strings.Join(textLines, " "))
		if text == "" {
			continue
		}
		segs = append(segs, Segment{
			ID:    fmt.Sprintf("seg-%d", len(segs)),
			Start: start,
			End:   end,
			Text:  text,
		})
	}
	return segs
}

// parseCueTime converts "HH:MM:SS.mmm" to fractional seconds.
func parseCueTime(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad cue time %q", ts)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad cue time %q: %w", ts, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad cue time %q: %w", ts, err)
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("bad cue time %q: %w", ts, err)
	}
	return float64(h)*3600 + float64(m)*60 + s, nil
}

// cleanCueText strips styling markup and collapses whitespace.
func cleanCueText(s string) string {
	s = vttTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(manySpaceRe.ReplaceAllString(s, " "))
}
