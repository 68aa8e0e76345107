package installer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExtractionFailed means an install archive could not be unpacked.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrRegistrationFailed means a side effect (path entry, desktop
	// entry) could not be created for an install.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrPartialRemoval matches a PartialRemovalError via errors.Is.
	ErrPartialRemoval = errors.New("partial removal failure")

	// ErrAliasesRemain means an installed application cannot be removed
	// because alias records still target it.
	ErrAliasesRemain = errors.New("application is still targeted by aliases")

	// ErrLocked means another opt invocation holds the registry lock.
	ErrLocked = errors.New("registry is locked by another opt invocation")
)

// StepResult records the outcome of one removal step.
type StepResult struct {
	Label string
	Err   error
}

// PartialRemovalError aggregates the steps that failed during a best-effort
// removal. The steps that succeeded are reported separately on the removal
// report; this error carries only the failures.
type PartialRemovalError struct {
	Failures []StepResult
}

func (e *PartialRemovalError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d removal step(s) failed:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "\n  %s: %v", f.Label, f.Err)
	}
	return sb.String()
}

// Is lets callers match with errors.Is(err, ErrPartialRemoval).
func (e *PartialRemovalError) Is(target error) bool {
	return target == ErrPartialRemoval
}
