package staging

import (
	"errors"
	"fmt"
)

// ErrNothingStaged is matched by the *StagingError returned when every
// staging attempt failed.
var ErrNothingStaged = errors.New("no files were staged successfully")

// StagingError is the fatal outcome of a staging pass in which no file could
// be staged.
type StagingError struct {
	Failed []Failure
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("no files were staged successfully (%d failed)", len(e.Failed))
}

// Is lets errors.Is match ErrNothingStaged.
func (e *StagingError) Is(target error) bool { return target == ErrNothingStaged }

// Operator-facing reasons carried by NoOpError.
const (
	ReasonNoStagedChanges = "No staged changes found."
	ReasonEmptyDiff       = "No changes found to generate commit message."
)

// NoOpError ends a run without failure: there is nothing to generate from.
type NoOpError struct {
	Reason string
}

func (e *NoOpError) Error() string { return e.Reason }

// IsNoOp reports whether err is, or wraps, a *NoOpError.
func IsNoOp(err error) bool {
	var noop *NoOpError
	return errors.As(err, &noop)
}
