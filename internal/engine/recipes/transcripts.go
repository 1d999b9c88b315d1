package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_recipes/internal/engine/transcript"
)

func artifactKey(videoID string) string { return "transcripts/" + videoID + ".json" }
func rawVTTKey(videoID string) string   { return "transcripts/" + videoID + ".vtt" }

// LoadVideoArtifact returns the cached metadata+transcript document for a
// video, or ErrNotFound when none has been saved.
func (s *VersionStore) LoadVideoArtifact(ctx context.Context, videoID string) (*VideoArtifact, error) {
	data, err := s.blobs.Get(ctx, artifactKey(videoID))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load artifact %s: %w", videoID, err)
	}
	var art VideoArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, &CorruptDocumentError{Key: artifactKey(videoID), Err: err}
	}
	return &art, nil
}

// SaveVideoArtifact stores the metadata+transcript document for a video.
func (s *VersionStore) SaveVideoArtifact(ctx context.Context, videoID string, art *VideoArtifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", videoID, err)
	}
	if err := s.blobs.Put(ctx, artifactKey(videoID), data); err != nil {
		return fmt.Errorf("save artifact %s: %w", videoID, err)
	}
	return nil
}

// LoadRawVTT returns the raw WebVTT text saved for a video, or ErrNotFound.
func (s *VersionStore) LoadRawVTT(ctx context.Context, videoID string) (string, error) {
	data, err := s.blobs.Get(ctx, rawVTTKey(videoID))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load vtt %s: %w", videoID, err)
	}
	return string(data), nil
}

// SaveRawVTT stores the raw WebVTT text for a video alongside the parsed
// artifact.
func (s *VersionStore) SaveRawVTT(ctx context.Context, videoID, vtt string) error {
	if err := s.blobs.Put(ctx, rawVTTKey(videoID), []byte(vtt)); err != nil {
		return fmt.Errorf("save vtt %s: %w", videoID, err)
	}
	return nil
}

// ResolveTranscript returns the usable transcript segments for a stored
// artifact, falling back to parsing the raw VTT when the artifact carries
// no pre-segmented cues.
func (s *VersionStore) ResolveTranscript(ctx context.Context, videoID string, art *VideoArtifact) ([]transcript.Segment, error) {
	raw, err := s.LoadRawVTT(ctx, videoID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	var cached *transcript.Cached
	if art != nil {
		cached = &art.Transcript
	}
	return transcript.Resolve(cached, raw), nil
}
