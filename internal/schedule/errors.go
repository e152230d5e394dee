package schedule

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the generation engine. Callers branch on these with
// errors.Is; nothing below ever crosses the generation boundary as a panic.
var (
	ErrInvalidRange        = errors.New("invalid date range")
	ErrInvalidTemplate     = errors.New("invalid template")
	ErrUnsupportedTemplate = errors.New("unsupported template type")
	ErrShiftTypeNotFound   = errors.New("shift type not found")
	ErrRegistryEmpty       = errors.New("registry snapshot not loaded")
)

// GenerationError wraps an unexpected failure (including a recovered panic)
// raised inside a provider during range generation. The requested range
// produced no partial output.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("schedule generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
