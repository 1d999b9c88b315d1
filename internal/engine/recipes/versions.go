package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_recipes/internal/engine"
)

// VersionStore keeps an append-only, numbered version history per video on
// top of a BlobStore, plus one movable "current" pointer per video.
//
// Layout: legacy pre-versioning blob at recipes/{id}.json; versioned blobs at
// recipes/{id}/v{N}.json with the pointer at recipes/{id}/current. After
// migration a video never has both shapes.
//
// Writes for one video are serialized through a keyed lock so version numbers
// are assigned monotonically with no repeats; writes to different videos do
// not block each other. Reads always go to durable storage — the engine cache
// in front of current-version reads is invalidated on every write.
type VersionStore struct {
	blobs BlobStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewVersionStore wraps a blob backend.
func NewVersionStore(blobs BlobStore) *VersionStore {
	return &VersionStore{blobs: blobs, locks: make(map[string]*sync.Mutex)}
}

// Package-level singleton, set from main.go.
var store *VersionStore

// SetStore sets the package-level version store instance.
func SetStore(s *VersionStore) { store = s }

// GetStore returns the package-level version store instance (may be nil).
func GetStore() *VersionStore { return store }

func legacyKey(videoID string) string { return "recipes/" + videoID + ".json" }

func versionKey(videoID string, version int) string {
	return fmt.Sprintf("recipes/%s/v%d.json", videoID, version)
}

func pointerKey(videoID string) string { return "recipes/" + videoID + "/current" }

func currentCacheKey(videoID string) string { return engine.CacheKey("current", videoID) }

// lockVideo serializes writers for one video id.
func (s *VersionStore) lockVideo(videoID string) func() {
	s.mu.Lock()
	l, ok := s.locks[videoID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[videoID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// IsLegacyFormat reports whether the video's stored document still has the
// pre-versioning shape (single blob, no version metadata).
func (s *VersionStore) IsLegacyFormat(ctx context.Context, videoID string) (bool, error) {
	if _, err := s.blobs.Get(ctx, legacyKey(videoID)); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return false, nil
		}
		return false, err
	}
	versions, err := s.AvailableVersions(ctx, videoID)
	if err != nil {
		return false, err
	}
	return len(versions) == 0, nil
}

// MigrateFromLegacy wraps the legacy document as version 1 with
// generation_type=migrated, points current at it, and removes the legacy
// blob. Idempotent: a no-op once any version exists.
func (s *VersionStore) MigrateFromLegacy(ctx context.Context, videoID string) error {
	unlock := s.lockVideo(videoID)
	defer unlock()

	versions, err := s.AvailableVersions(ctx, videoID)
	if err != nil {
		return err
	}
	if len(versions) > 0 {
		return nil // already migrated
	}

	key := legacyKey(videoID)
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return err
	}

	doc, err := decodeLegacy(key, data)
	if err != nil {
		return err
	}

	info := VersionInfo{
		Version:        1,
		CreatedAt:      time.Now().UTC(),
		PromptUsed:     "legacy",
		GenerationType: GenerationMigrated,
	}
	if err := s.writeVersion(ctx, videoID, VersionedDocument{
		VersionInfo: info,
		Recipe:      NormalizeRecipes(doc),
	}); err != nil {
		return err
	}
	if err := s.writePointer(ctx, videoID, 1); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		return err
	}

	engine.IncrLegacyMigrations()
	slog.Info("migrated legacy recipe document", slog.String("video_id", videoID))
	return nil
}

// LoadVersion loads one immutable version.
func (s *VersionStore) LoadVersion(ctx context.Context, videoID string, version int) (*VersionedDocument, error) {
	key := versionKey(videoID, version)
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, fmt.Errorf("video %s version %d: %w", videoID, version, ErrNotFound)
		}
		return nil, err
	}
	return decodeVersioned(key, data)
}

// CurrentVersion resolves the current pointer. Fails with ErrNotFound when
// the video has no history.
func (s *VersionStore) CurrentVersion(ctx context.Context, videoID string) (int, error) {
	data, err := s.blobs.Get(ctx, pointerKey(videoID))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return 0, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v < 1 {
		return 0, &CorruptDocumentError{Key: pointerKey(videoID), Err: fmt.Errorf("bad pointer %q", data)}
	}
	return v, nil
}

// LoadCurrentVersion resolves the pointer then loads its version. A pointer
// whose target version is missing surfaces ErrVersionNotFound — that is
// corruption, not absence.
func (s *VersionStore) LoadCurrentVersion(ctx context.Context, videoID string) (*VersionedDocument, error) {
	if data, ok := engine.CacheGet(ctx, currentCacheKey(videoID)); ok {
		var doc VersionedDocument
		if json.Unmarshal(data, &doc) == nil {
			return &doc, nil
		}
	}

	version, err := s.CurrentVersion(ctx, videoID)
	if err != nil {
		return nil, err
	}
	doc, err := s.LoadVersion(ctx, videoID, version)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("video %s: pointer targets missing version %d: %w", videoID, version, ErrVersionNotFound)
		}
		return nil, err
	}

	if data, err := json.Marshal(doc); err == nil {
		engine.CacheSet(ctx, currentCacheKey(videoID), data)
	}
	return doc, nil
}

// SetCurrentVersion atomically re-points current at an existing version.
func (s *VersionStore) SetCurrentVersion(ctx context.Context, videoID string, version int) error {
	unlock := s.lockVideo(videoID)
	defer unlock()

	if _, err := s.blobs.Get(ctx, versionKey(videoID, version)); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return fmt.Errorf("video %s version %d: %w", videoID, version, ErrVersionNotFound)
		}
		return err
	}
	return s.writePointer(ctx, videoID, version)
}

// AvailableVersions returns the stored version numbers, ascending.
func (s *VersionStore) AvailableVersions(ctx context.Context, videoID string) ([]int, error) {
	keys, err := s.blobs.List(ctx, "recipes/"+videoID+"/v")
	if err != nil {
		return nil, err
	}
	var versions []int
	for _, key := range keys {
		base := key[strings.LastIndex(key, "/")+1:]
		if !strings.HasPrefix(base, "v") || !strings.HasSuffix(base, ".json") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, "v"), ".json"))
		if err != nil || n < 1 {
			continue
		}
		versions = append(versions, n)
	}
	sort.Ints(versions)
	return versions, nil
}

// ListVersions returns the metadata of every version, ascending by number.
func (s *VersionStore) ListVersions(ctx context.Context, videoID string) ([]VersionInfo, error) {
	versions, err := s.AvailableVersions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	infos := make([]VersionInfo, 0, len(versions))
	for _, v := range versions {
		doc, err := s.LoadVersion(ctx, videoID, v)
		if err != nil {
			return nil, err
		}
		infos = append(infos, doc.VersionInfo)
	}
	return infos, nil
}

// SaveNewVersion allocates the next version number, writes the document as a
// new immutable version, and points current at it. Existing version numbers
// are never overwritten: allocation happens under the per-video lock.
func (s *VersionStore) SaveNewVersion(ctx context.Context, videoID string, doc VideoRecipes, fields VersionFields) (*VersionInfo, error) {
	unlock := s.lockVideo(videoID)
	defer unlock()

	versions, err := s.AvailableVersions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}

	info := VersionInfo{
		Version:        next,
		CreatedAt:      time.Now().UTC(),
		PromptUsed:     fields.PromptUsed,
		Model:          fields.Model,
		Temperature:    fields.Temperature,
		GenerationType: fields.GenerationType,
	}
	if err := s.writeVersion(ctx, videoID, VersionedDocument{
		VersionInfo: info,
		Recipe:      NormalizeRecipes(doc),
	}); err != nil {
		return nil, err
	}
	if err := s.writePointer(ctx, videoID, next); err != nil {
		return nil, err
	}

	engine.IncrVersionsSaved()
	slog.Info("saved recipe version",
		slog.String("video_id", videoID),
		slog.Int("version", next),
		slog.String("generation_type", string(info.GenerationType)),
	)
	return &info, nil
}

// UpdateCurrentVersion applies transform to the normalized current document
// and saves the result as a new manual-edit version, re-pointing current.
// Minting a version (instead of patching the current slot) keeps every stored
// version immutable and the edit history auditable. Returns ErrNotFound when
// the video has no current version.
func (s *VersionStore) UpdateCurrentVersion(ctx context.Context, videoID string, transform func(VideoRecipes) VideoRecipes) (*VersionedDocument, error) {
	unlock := s.lockVideo(videoID)
	defer unlock()

	version, err := s.CurrentVersion(ctx, videoID)
	if err != nil {
		return nil, err
	}
	current, err := s.LoadVersion(ctx, videoID, version)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("video %s: pointer targets missing version %d: %w", videoID, version, ErrVersionNotFound)
		}
		return nil, err
	}

	versions, err := s.AvailableVersions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	next := versions[len(versions)-1] + 1

	edited := NormalizeRecipes(transform(NormalizeRecipes(current.Recipe)))
	doc := VersionedDocument{
		VersionInfo: VersionInfo{
			Version:        next,
			CreatedAt:      time.Now().UTC(),
			PromptUsed:     current.VersionInfo.PromptUsed,
			Model:          current.VersionInfo.Model,
			Temperature:    current.VersionInfo.Temperature,
			GenerationType: GenerationManualEdit,
		},
		Recipe: edited,
	}
	if err := s.writeVersion(ctx, videoID, doc); err != nil {
		return nil, err
	}
	if err := s.writePointer(ctx, videoID, next); err != nil {
		return nil, err
	}

	engine.IncrManualEdits()
	return &doc, nil
}

func (s *VersionStore) writeVersion(ctx context.Context, videoID string, doc VersionedDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode version %d for %s: %w", doc.VersionInfo.Version, videoID, err)
	}
	return s.blobs.Put(ctx, versionKey(videoID, doc.VersionInfo.Version), data)
}

func (s *VersionStore) writePointer(ctx context.Context, videoID string, version int) error {
	if err := s.blobs.Put(ctx, pointerKey(videoID), []byte(strconv.Itoa(version))); err != nil {
		return err
	}
	engine.CacheDelete(ctx, currentCacheKey(videoID))
	return nil
}

// decodeVersioned parses a stored version blob.
func decodeVersioned(key string, data []byte) (*VersionedDocument, error) {
	var doc VersionedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptDocumentError{Key: key, Err: err}
	}
	if doc.VersionInfo.Version < 1 {
		return nil, &CorruptDocumentError{Key: key, Err: errors.New("missing version metadata")}
	}
	return &doc, nil
}

// decodeLegacy parses a legacy blob: either an unwrapped recipes document or
// a single bare recipe object.
func decodeLegacy(key string, data []byte) (VideoRecipes, error) {
	var doc VideoRecipes
	if err := json.Unmarshal(data, &doc); err == nil && doc.Recipes != nil {
		return doc, nil
	}
	var r Recipe
	if err := json.Unmarshal(data, &r); err == nil && (r.Title != "" || len(r.Instructions) > 0) {
		return VideoRecipes{Recipes: []Recipe{r}}, nil
	}
	return VideoRecipes{}, &CorruptDocumentError{Key: key, Err: errors.New("unrecognized legacy shape")}
}
