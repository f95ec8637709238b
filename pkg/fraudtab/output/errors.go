package output

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates an export format name that is not csv, json, excel or pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrExportGeneration indicates the underlying writer failed to produce the artifact.
var ErrExportGeneration = errors.New("export generation failed")

// ExportError represents a failure while writing one export artifact.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is makes every ExportError match ErrExportGeneration.
func (e *ExportError) Is(target error) bool {
	return target == ErrExportGeneration
}

// NewExportError creates a new ExportError.
func NewExportError(format Format, err error) *ExportError {
	return &ExportError{
		Format: format,
		Err:    err,
	}
}
