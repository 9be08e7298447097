package sprout

import (
	"fmt"

	"github.com/sproutlabs/sprout/pkg/internal"
)

// Sentinel failures surfaced by Create, testable with errors.Is.
var (
	ErrDestinationExists      = internal.ErrDestinationExists
	ErrDestinationNotWritable = internal.ErrDestinationNotWritable
	ErrPromptUnavailable      = internal.ErrPromptUnavailable
)

// ValidationError reports user input that cannot become part of a project
// path.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// FetchError wraps a failure to materialize a template from its coordinate.
type FetchError struct {
	Coordinate string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching template from %s: %v", e.Coordinate, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CleanupError reports a rollback that could not finish; the path needs to
// be removed manually.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("could not clean up %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
