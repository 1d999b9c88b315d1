package recipes

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the store and the engine. Callers branch on these
// with errors.Is / errors.As; the tool layer maps them to distinct messages.
var (
	// ErrNotFound — video, version, or transcript absent.
	ErrNotFound = errors.New("not found")

	// ErrVersionNotFound — a referenced version number is not in the history.
	// When the current pointer's target is missing this indicates corruption;
	// it is surfaced, never auto-healed.
	ErrVersionNotFound = errors.New("version not found")

	// ErrMalformedBatch — the extractor returned data that does not parse
	// into a recipe batch. Treated as an empty batch per iteration; fatal
	// only when every iteration of a run was malformed.
	ErrMalformedBatch = errors.New("malformed extractor batch")
)

// CorruptDocumentError reports stored bytes that do not parse into the
// expected shape. The original bytes are preserved in place, never deleted.
type CorruptDocumentError struct {
	Key string
	Err error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt document at %s: %v", e.Key, e.Err)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Err }

// ExtractorError reports an external extractor failure mid-run. The run is
// aborted; recipes merged in prior iterations of the same run are discarded,
// never partially persisted.
type ExtractorError struct {
	Iteration int
	Err       error
}

func (e *ExtractorError) Error() string {
	return fmt.Sprintf("extractor failed on iteration %d: %v", e.Iteration, e.Err)
}

func (e *ExtractorError) Unwrap() error { return e.Err }
