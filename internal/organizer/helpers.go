package organizer

import (
	"errors"
	"log/slog"
	"os"
	"syscall"

	"mediashelf/internal/logging"
)

// libraryUnavailableErrors lists syscall errors that indicate the library is unavailable.
var libraryUnavailableErrors = []error{
	syscall.ENODEV,
	syscall.ENOTCONN,
	syscall.EHOSTDOWN,
	syscall.EHOSTUNREACH,
	syscall.ETIMEDOUT,
	syscall.EIO,
	syscall.ESTALE,
}

// isLibraryUnavailable checks whether an error indicates the library filesystem is unavailable.
func isLibraryUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	for _, target := range libraryUnavailableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func logLibraryUnavailable(logger *slog.Logger, err error) {
	logging.WarnWithContext(logger, "library unavailable; set left in work directory", "library_unavailable",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check that paths.library_dir is mounted"),
		logging.String(logging.FieldImpact, "set will be retried on the next run"),
	)
}

// logIntegrationDecision logs an integrator decision with consistent fields.
func logIntegrationDecision(logger *slog.Logger, integrator, result, reason string) {
	logging.Decision(logger, slog.LevelInfo, "library integration decision", integrator+"_integration", result, reason)
}
