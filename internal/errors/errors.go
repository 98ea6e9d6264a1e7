package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/droplet/internal/logger"
)

var (
	// ErrFetchFailed marks a failed history fetch from the remote store
	ErrFetchFailed = stderrors.New("failed to fetch history")
	// ErrCommitFailed marks a record the remote store refused or never acknowledged
	ErrCommitFailed = stderrors.New("failed to save record")
	// ErrDeleteFailed marks a remote delete that failed and was rolled back locally
	ErrDeleteFailed = stderrors.New("failed to delete record")
	// ErrNotFound is returned when a record cannot be located
	ErrNotFound = stderrors.New("record not found")
	// ErrInvalidRecord is returned when a record fails validation
	ErrInvalidRecord = stderrors.New("invalid record")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Notification returns the short, transient message shown to the user for a failed mutation.
// The underlying view stays on its last derived state, so the text only names what did not happen.
func Notification(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return "Record not found"
	case stderrors.Is(err, ErrCommitFailed):
		return "Could not save to cloud history"
	case stderrors.Is(err, ErrDeleteFailed):
		return "Delete failed, record restored"
	case stderrors.Is(err, ErrFetchFailed):
		return "Could not load cloud history, showing last known records"
	case stderrors.Is(err, ErrInvalidRecord):
		return "Record rejected: " + err.Error()
	default:
		return Format(err)
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
