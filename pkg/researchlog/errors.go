package researchlog

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the store wraps exactly one of these.
var (
	// ErrNotFound indicates the requested article or asset does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates missing or malformed caller input
	ErrValidation = errors.New("validation failed")

	// ErrParse indicates a stored document could not be decoded
	ErrParse = errors.New("document unreadable")

	// ErrIO indicates an underlying storage failure
	ErrIO = errors.New("storage failure")
)

// Specific errors
var (
	ErrArticleNotFound = fmt.Errorf("article %w", ErrNotFound)
	ErrAssetNotFound   = fmt.Errorf("asset %w", ErrNotFound)
	ErrNoFile          = fmt.Errorf("no file uploaded: %w", ErrValidation)
	ErrInvalidName     = fmt.Errorf("invalid name: %w", ErrValidation)
	ErrMissingTitle    = fmt.Errorf("title is required: %w", ErrValidation)
)

// ErrorKind classifies an error for callers that need to tell failures apart.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindParse      ErrorKind = "parse"
	KindIO         ErrorKind = "io"
)

// KindOf returns the kind of err. Errors that wrap none of the known kinds
// are reported as KindIO.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrParse):
		return KindParse
	default:
		return KindIO
	}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ArticleError represents an error related to article operations
type ArticleError struct {
	ArticleID string
	Op        string
	Err       error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("article operation %s failed for article %q: %v", e.Op, e.ArticleID, e.Err)
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to asset operations
type AssetError struct {
	FileName string
	Op       string
	Err      error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for %q: %v", e.Op, e.FileName, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents an error raised by a repository or blob store
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IOFailure wraps err as an ErrIO failure, keeping err in the chain.
func IOFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// ParseFailure wraps err as an ErrParse failure, keeping err in the chain.
func ParseFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}
