package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNoSession       = fmt.Errorf("no active user, run 'jobtrack login <username>'")
	ErrInvalidUsername = fmt.Errorf("invalid username")

	// Store errors
	ErrStorage       = fmt.Errorf("storage failure")
	ErrNotFound      = fmt.Errorf("record not found")
	ErrDuplicateLink = fmt.Errorf("another record already tracks this link")
	ErrValidation    = fmt.Errorf("validation failed")
	ErrNoRecords     = fmt.Errorf("no jobs to export")

	// Scraper errors
	ErrFetchFailed     = fmt.Errorf("page fetch failed")
	ErrUnsupportedPage = fmt.Errorf("unsupported page")
	ErrNoScraper       = fmt.Errorf("no scraper configured")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// StorageError reports a failure of the underlying storage engine.
//
// It matches [ErrStorage] with [errors.Is] and unwraps to the driver error.
type StorageError struct {
	Op        string // Operation, e.g. "put", "get", "delete"
	Partition string // jobs, users or settings
	Key       string // Primary key involved, if any
	Err       error
}

// NewStorageError wraps err, returning nil when err is nil.
func NewStorageError(op, partition, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Partition: partition, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Partition, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Partition, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsStorageError reports whether err carries a [StorageError].
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidationError lists the required fields a record is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
