package upstream

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// UploadExtensions are the statement file types the service accepts.
var UploadExtensions = []string{"pdf", "jpg", "jpeg", "png"}

// ValidateUpload checks the extension of filename, ignoring case.
func ValidateUpload(filename string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !slices.Contains(UploadExtensions, ext) {
		return fmt.Errorf("%w: %q, please upload a PDF, JPG, or PNG file", ErrUnsupportedUpload, filepath.Base(filename))
	}
	return nil
}
