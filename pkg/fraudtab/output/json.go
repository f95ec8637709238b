package output

import (
	"encoding/json"
	"io"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

// WriteJSON writes the original value with two-space indentation.
// It is the only format that keeps full nesting.
func WriteJSON(w io.Writer, raw models.RawValue) error {
	data, err := raw.Indent()
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ToJSON serializes v to JSON, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
