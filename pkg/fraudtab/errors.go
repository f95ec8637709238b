package fraudtab

import (
	"errors"
	"fmt"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidInput indicates the input is not a single JSON document.
var ErrInvalidInput = errors.New("invalid JSON input")

// Errors raised by the export engine and the upstream client.
var (
	ErrUnsupportedFormat        = output.ErrUnsupportedFormat
	ErrExportGeneration         = output.ErrExportGeneration
	ErrUpstreamUnavailable      = upstream.ErrUpstreamUnavailable
	ErrUpstreamValidationFailed = upstream.ErrUpstreamValidationFailed
	ErrUnsupportedUpload        = upstream.ErrUnsupportedUpload
)

// LoadError represents a failure to read an analysis result.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{
		Source: source,
		Err:    err,
	}
}
