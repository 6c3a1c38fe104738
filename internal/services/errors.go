package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrExternalTool  = errors.New("external tool error")
	ErrIO            = errors.New("filesystem error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Disposition describes how far a failure propagates through a batch run.
type Disposition string

const (
	// DispositionSkipItem drops the offending file or set and continues.
	DispositionSkipItem Disposition = "skip_item"
	// DispositionAbortSet stops work on the current media set only.
	DispositionAbortSet Disposition = "abort_set"
	// DispositionAbortRun stops the enclosing step for the whole batch.
	DispositionAbortRun Disposition = "abort_run"
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureDisposition maps an error to the propagation rule the workflow applies.
func FailureDisposition(err error) Disposition {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return DispositionSkipItem
	case errors.Is(err, ErrIO):
		return DispositionAbortSet
	default:
		return DispositionAbortRun
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
