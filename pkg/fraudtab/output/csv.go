package output

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes p as comma-separated records, header first.
// Fields holding a comma, quote or line break are quoted with inner quotes doubled.
func WriteCSV(w io.Writer, p Prepared) error {
	if p.IsEmpty() {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Headers); err != nil {
		return err
	}
	for _, row := range p.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
