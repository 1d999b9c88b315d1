// Package sources fetches video metadata and caption tracks from YouTube.
//
// Primary path scrapes the watch page for ytInitialPlayerResponse, which
// works from any IP. Fallback is the ANDROID Innertube /player endpoint,
// which is blocked from some datacenter ranges but survives markup changes
// on the watch page.
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_recipes/internal/engine"
	"github.com/anatolykoptev/go_recipes/internal/engine/recipes"
	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
)

// VideoData is the full fetch result for one video: prompt-ready metadata
// plus timestamped caption cues.
type VideoData struct {
	Meta recipes.VideoContext
	Cues []transcript.Cue
}

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format.
// A bare 11-char ID passes through unchanged.
func ExtractVideoID(raw string) string {
	if m := videoIDRE.FindStringSubmatch(raw); len(m) >= 2 {
		return m[1]
	}
	if len(raw) == 11 && !strings.ContainsAny(raw, "/?&=. ") {
		return raw
	}
	return ""
}

// FetchVideo fetches metadata and captions for a YouTube video.
// Primary:  scrape watch page ytInitialPlayerResponse (works from any IP)
// Fallback: ANDROID Innertube /player
func FetchVideo(ctx context.Context, videoID string, langs []string) (*VideoData, error) {
	engine.IncrTranscriptFetches()

	data, err := fetchViaPageScrape(ctx, videoID, langs)
	if err == nil {
		return data, nil
	}
	slog.Warn("youtube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))

	data, err2 := fetchViaPlayer(ctx, videoID, langs)
	if err2 != nil {
		engine.IncrTranscriptErrors()
		return nil, fmt.Errorf("page scrape: %v; player: %w", err, err2)
	}
	return data, nil
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON
// in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

func fetchViaPageScrape(ctx context.Context, videoID string, langs []string) (*VideoData, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return buildVideoData(ctx, videoID, &playerResp, langs)
}

// fetchViaPlayer uses the ANDROID Innertube /player endpoint.
func fetchViaPlayer(ctx context.Context, videoID string, langs []string) (*VideoData, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytInnertubeURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return buildVideoData(ctx, videoID, &playerResp, langs)
}

// buildVideoData extracts metadata and fetches the best caption track from
// a parsed player response.
func buildVideoData(ctx context.Context, videoID string, p *innertubePlayerResp, langs []string) (*VideoData, error) {
	meta := recipes.VideoContext{
		ID:  videoID,
		URL: "https://www.youtube.com/watch?v=" + videoID,
	}
	if p.VideoDetails != nil {
		meta.Title = p.VideoDetails.Title
		meta.Channel = p.VideoDetails.Author
		meta.Description = p.VideoDetails.ShortDescription
		if secs, err := strconv.Atoi(p.VideoDetails.LengthSeconds); err == nil {
			meta.Duration = secs
		}
	}
	if p.Microformat != nil {
		meta.UploadDate = p.Microformat.PlayerMicroformatRenderer.PublishDate
		if meta.UploadDate == "" {
			meta.UploadDate = p.Microformat.PlayerMicroformatRenderer.UploadDate
		}
	}

	if p.Captions == nil {
		reason := ""
		if p.PlayabilityStatus != nil {
			reason = p.PlayabilityStatus.Reason
		}
		if reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", reason)
		}
		return nil, errors.New("no captions in player response")
	}
	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errors.New("no caption tracks")
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, errors.New("all caption tracks require PoToken")
	}

	cues, err := fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if len(cues) == 0 {
		return nil, errors.New("empty caption track")
	}
	return &VideoData{Meta: meta, Cues: cues}, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken
// (browser-only). Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the language
// preferences: manual track in a preferred language, then auto-generated
// in a preferred language, then any English, then anything usable.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches a YouTube timedtext XML caption URL and converts
// its lines to cues.
func fetchTimedText(ctx context.Context, baseURL string) ([]transcript.Cue, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, err
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	cues := make([]transcript.Cue, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(engine.CleanMarkup(html.UnescapeString(line.Text)))
		if text == "" {
			continue
		}
		cues = append(cues, transcript.Cue{
			StartTime: line.Start,
			EndTime:   line.Start + line.Dur,
			Text:      text,
		})
	}
	return cues, nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by
// tracking brace depth outside string literals.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
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
	return nil
}
