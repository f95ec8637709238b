package fraudtab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/parser"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/summary"
)

// Result is one analysis result with its normalized table.
// It is immutable; views and exports derive new values from it.
type Result struct {
	Raw   models.RawValue
	Table models.Table
	// Empty is set when the value has no rows to show. It is not an error.
	Empty bool
	// Verdict is nil when the value carries no score, status or summary.
	Verdict *summary.Verdict
}

// Load normalizes raw. It never fails.
func Load(raw models.RawValue) *Result {
	table, ok := parser.Normalize(raw)
	res := &Result{Raw: raw, Table: table, Empty: !ok || table.IsEmpty()}
	if v, ok := summary.Evaluate(raw); ok {
		res.Verdict = &v
	}
	return res
}

// LoadBytes decodes one JSON document and normalizes it.
func LoadBytes(data []byte) (*Result, error) {
	return LoadReader(bytes.NewReader(data))
}

// LoadReader decodes one JSON document from r and normalizes it.
func LoadReader(r io.Reader) (*Result, error) {
	raw, err := models.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Load(raw), nil
}

// LoadFile reads a JSON file, or a workbook written by the spreadsheet
// export when the name ends in .xlsx.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewLoadError(path, ErrFileNotFound)
		}
		return nil, NewLoadError(path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		raw, err := parser.ReadWorkbook(f, "")
		if err != nil {
			return nil, NewLoadError(path, err)
		}
		return Load(raw), nil
	}

	res, err := LoadReader(f)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	return res, nil
}
