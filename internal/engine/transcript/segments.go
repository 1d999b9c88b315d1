// Package transcript turns raw caption tracks into ordered, timestamped
// segments and renders them as marker-prefixed text for the extraction engine.
package transcript

import (
	"fmt"
	"strings"
)

// Segment is one timestamped unit of transcript text.
// The sequence contract is ordering by Start.
type Segment struct {
	ID    string  `json:"id"`
	Start float64 `json:"start_seconds"`
	End   float64 `json:"end_seconds"`
	Text  string  `json:"text"`
}

// Cue is one pre-segmented caption entry as produced by the transcript
// extractor and cached alongside video metadata.
type Cue struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// Cached is the stored transcript artifact for one video.
type Cached struct {
	PlainText string `json:"plainText,omitempty"`
	Segments  []Cue  `json:"segments,omitempty"`
}

// FromCues converts pre-segmented cues into segments, assigning stable
// sequential identifiers (seg-0, seg-1, …) in input order. Cues carry no
// identifiers of their own, so input order is the identity.
func FromCues(cues []Cue) []Segment {
	segs := make([]Segment, 0, len(cues))
	for i, c := range cues {
		segs = append(segs, Segment{
			ID:    fmt.Sprintf("seg-%d", i),
			Start: c.StartTime,
			End:   c.EndTime,
			Text:  strings.TrimSpace(c.Text),
		})
	}
	return segs
}

// Resolve picks the authoritative segment sequence for a video.
// Pre-segmented cues win; raw VTT is parsed only when no pre-segmented
// artifact exists.
func Resolve(cached *Cached, rawVTT string) []Segment {
	if cached != nil && len(cached.Segments) > 0 {
		return FromCues(cached.Segments)
	}
	if rawVTT != "" {
		return ParseVTT(rawVTT)
	}
	return nil
}

// TimestampedText renders segments as one text block, each line prefixed
// with a bracketed start-time marker. This is the exact text handed to the
// extraction engine so extracted steps can carry back accurate timestamps.
func TimestampedText(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		sb.WriteString(formatMarker(s.Start))
		sb.WriteByte(' ')
		sb.WriteString(s.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PlainText joins segment text with single spaces, no markers.
func PlainText(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// formatMarker renders seconds as [MM:SS], or [H:MM:SS] past one hour.
func formatMarker(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("[%d:%02d:%02d]", h, m, s)
	}
	return fmt.Sprintf("[%02d:%02d]", m, s)
}
