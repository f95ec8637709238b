package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustParse(t *testing.T, src string) models.RawValue {
	t.Helper()
	v, err := models.ParseJSON([]byte(src))
	require.NoError(t, err)
	return v
}

var fixedNow = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Prepared
	}{
		{"null", `null`, Prepared{}},
		{"empty array", `[]`, Prepared{}},
		{
			"array of objects",
			`[{"a": 1, "b": {"x": [1, 2]}}, {"a": null}, "stray"]`,
			Prepared{
				Headers: []string{"a", "b"},
				Rows:    [][]string{{"1", `{"x":[1,2]}`}, {"", ""}, {"", ""}},
			},
		},
		{
			"scalar array",
			`[1, "two", null, [3]]`,
			Prepared{Headers: []string{"Value"}, Rows: [][]string{{"1"}, {"two"}, {"null"}, {"[3]"}}},
		},
		{
			"object",
			`{"bank": "Acme", "meta": {"k": true}, "gone": null}`,
			Prepared{
				Headers: []string{"Property", "Value"},
				Rows:    [][]string{{"bank", "Acme"}, {"meta", `{"k":true}`}, {"gone", "null"}},
			},
		},
		{"scalar", `42.5`, Prepared{Headers: []string{"Result"}, Rows: [][]string{{"42.5"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prepare(mustParse(t, tt.src))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Prepare(%s) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestCSVQuoting(t *testing.T) {
	raw := mustParse(t, `[{"note": "He said, \"hi\"", "plain": "ok"}]`)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, raw, FormatCSV, Options{}))

	assert.Equal(t, "note,plain\n\"He said, \"\"hi\"\"\",ok\n", buf.String())
}

func TestCSVMultiline(t *testing.T) {
	raw := mustParse(t, `["line one\nline two"]`)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Prepare(raw)))

	assert.Equal(t, "Value\n\"line one\nline two\"\n", buf.String())
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Prepare(models.NewNull())))
	assert.Empty(t, buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	inputs := []string{
		`{"summary": "Score: 72", "important_transactions": [{"amount": 1.50, "tags": ["a", null]}], "ok": false}`,
		`[1, 2.5e30, "x"]`,
		`null`,
		`"text"`,
	}
	for _, src := range inputs {
		raw := mustParse(t, src)

		data, err := ExportBytes(raw, FormatJSON, Options{})
		require.NoError(t, err)

		back, err := models.ParseJSON(data)
		require.NoError(t, err)
		assert.True(t, raw.Equal(back), "round trip of %s gave %s", src, data)
	}
}

func TestJSONIsIndented(t *testing.T) {
	data, err := ExportBytes(mustParse(t, `{"a":[1]}`), FormatJSON, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}\n", string(data))
}

func TestExcelExport(t *testing.T) {
	raw := mustParse(t, `[{"name": "Acme", "amount": 1500}, {"name": "Globex", "amount": -20.5}]`)

	data, err := ExportBytes(raw, FormatExcel, Options{SheetName: "Transactions"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Transactions"}, f.GetSheetList())

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	expected := [][]string{{"name", "amount"}, {"Acme", "1500"}, {"Globex", "-20.5"}}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	width, err := f.GetColWidth("Transactions", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Globex")+2), width)
}

func TestExcelRoundTripThroughReader(t *testing.T) {
	raw := mustParse(t, `[{"id": "t-1", "amount": 50}, {"id": "t-2", "amount": 75.25}]`)

	data, err := ExportBytes(raw, FormatExcel, Options{})
	require.NoError(t, err)

	back, err := parser.ReadWorkbook(bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.True(t, raw.Equal(back), "re-imported %s", back)
}

func TestExcelRoundTripKeepsBlankRecords(t *testing.T) {
	raw := mustParse(t, `[{"id": "t-1", "amount": 50}, {"id": null, "amount": null}, {"id": null, "amount": null}]`)

	data, err := ExportBytes(raw, FormatExcel, Options{})
	require.NoError(t, err)

	back, err := parser.ReadWorkbook(bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Equal(t, 3, back.Len())
	assert.True(t, raw.Equal(back), "re-imported %s", back)
}

func TestColumnWidthsCapped(t *testing.T) {
	p := Prepared{
		Headers: []string{"short", "long"},
		Rows:    [][]string{{"a", strings.Repeat("x", 120)}},
	}
	assert.Equal(t, []int{7, maxColumnWidth}, columnWidths(p))
}

func TestExcelInvalidSheetName(t *testing.T) {
	_, err := ExportBytes(mustParse(t, `[1]`), FormatExcel, Options{SheetName: "bad/name"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportGeneration)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, FormatExcel, exportErr.Format)
}

func TestPDFExport(t *testing.T) {
	var rows []string
	for i := 0; i < 120; i++ {
		rows = append(rows, `{"description": "Transfer with a fairly long description to force wrapping inside the cell", "amount": 12.5}`)
	}
	raw := mustParse(t, "["+strings.Join(rows, ",")+"]")

	data, err := ExportBytes(raw, FormatPDF, Options{Now: fixedNow, Subtitle: "Verdict: suspicious"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
	assert.Contains(t, string(data), "%%EOF")
}

func TestPDFEmptyInput(t *testing.T) {
	data, err := ExportBytes(models.NewArray(), FormatPDF, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

// tallCase is an object whose transactions summary is one cell taller than
// an A4 page.
func tallCase(t *testing.T) models.RawValue {
	t.Helper()
	var txs []string
	for i := 0; i < 200; i++ {
		txs = append(txs, `{"description": "Card payment at a merchant with a long name", "amount": 12.5, "date": "2024-03-09"}`)
	}
	return mustParse(t, `{"case": "c-1", "transactions": [`+strings.Join(txs, ",")+`]}`)
}

func TestPDFTallCellStaysOnPage(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	r := newPDFRenderer(doc, "")
	doc.AddPage()
	p := Prepare(tallCase(t))
	_, body, blocks := r.layout(p, pdfTableTop)
	require.NoError(t, doc.Error())

	require.Len(t, body, 2)
	assert.GreaterOrEqual(t, r.widths[0], 10.0, "property column squeezed by the wide value column")
	tall := float64(body[1].lines()) * r.lineHeight()
	require.Greater(t, tall, 300.0, "cell should be taller than a page")

	_, pageH := doc.GetPageSize()
	drawn := 0
	for _, b := range blocks {
		if b.Y < pdfMargin-1e-9 || b.Y+b.H > pageH-pdfMargin+1e-9 {
			t.Errorf("block %+v is outside the page", b)
		}
		if b.Row == 1 {
			drawn += b.To - b.From
		}
	}
	assert.Equal(t, body[1].lines(), drawn)

	data, err := ExportBytes(tallCase(t), FormatPDF, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, bytes.Count(data, []byte("<</Type /Page\n")), 2)
}

func TestLayoutTableSplitsTallRows(t *testing.T) {
	const lineH, top, contTop, bottom = 3.0, 28.0, 14.0, 283.0
	rows := []int{1, 200, 2, 1}
	blocks := layoutTable(1, rows, lineH, top, contTop, bottom)

	next := make([]int, len(rows))
	headerPages := map[int]bool{}
	lastPage := 0
	for i, b := range blocks {
		if b.Y+b.H > bottom+1e-9 || b.Y < contTop {
			t.Errorf("block %d %+v is outside [%v, %v]", i, b, contTop, bottom)
		}
		if b.Page != lastPage {
			if b.Row != -1 {
				t.Errorf("page %d opens with row %d, expected the header", b.Page, b.Row)
			}
			lastPage = b.Page
		}
		if b.Row == -1 {
			headerPages[b.Page] = true
			continue
		}
		if b.From != next[b.Row] {
			t.Errorf("row %d resumes at line %d, expected %d", b.Row, b.From, next[b.Row])
		}
		next[b.Row] = b.To
	}
	assert.Equal(t, rows, next)
	assert.Greater(t, lastPage, 2)
	assert.Len(t, headerPages, lastPage)
}

func TestLayoutTableMovesRowThatFitsOnFreshPage(t *testing.T) {
	blocks := layoutTable(1, []int{70, 20}, 3, 28, 14, 283)

	var second []pdfBlock
	for _, b := range blocks {
		if b.Row == 1 {
			second = append(second, b)
		}
	}
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Page)
	assert.Equal(t, pdfBlock{Page: 2, Row: 1, From: 0, To: 20, Y: 14 + 6, H: 63}, second[0])
}

func TestPDFMissingFont(t *testing.T) {
	raw := mustParse(t, `[{"a": 1}]`)
	_, err := ExportBytes(raw, FormatPDF, Options{Now: fixedNow, PDFFont: filepath.Join(t.TempDir(), "missing.ttf")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportGeneration)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterFailureSurfaces(t *testing.T) {
	raw := mustParse(t, `[{"a": 1}]`)
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			err := Export(failingWriter{}, raw, f, Options{Now: fixedNow})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrExportGeneration)
			assert.Contains(t, err.Error(), "disk full")
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	err := Export(&bytes.Buffer{}, models.NewNull(), Format("docx"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, ErrExportGeneration)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ExportFile(t.TempDir(), models.NewNull(), Format("txt"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
	}{
		{"csv", FormatCSV},
		{"JSON", FormatJSON},
		{"excel", FormatExcel},
		{"xlsx", FormatExcel},
		{" pdf ", FormatPDF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "ParseFormat(%q)", tt.in)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected string
	}{
		{"", FormatCSV, "fraud-detection-export-2024-03-09.csv"},
		{"", FormatExcel, "fraud-detection-export-2024-03-09.xlsx"},
		{"report", FormatPDF, "report.pdf"},
		{"report.json", FormatJSON, "report.json"},
		{"report.XLSX", FormatExcel, "report.XLSX"},
		{"report.v2", FormatPDF, "report.v2.pdf"},
		{"report.csv", FormatPDF, "report.csv.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Filename(tt.name, tt.format, fixedNow))
	}
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "xlsx", FormatExcel.Extension())
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportFile(dir, mustParse(t, `{"a": 1}`), FormatCSV, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fraud-detection-export-2024-03-09.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Property,Value\na,1\n", string(data))
}

func TestExportFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportFile(dir, mustParse(t, `[1]`), FormatExcel, Options{SheetName: "bad/name"})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFromTable(t *testing.T) {
	raw := mustParse(t, `[{"a": 1, "b": "x"}, {"a": 2}]`)
	table, ok := parser.Normalize(raw)
	require.True(t, ok)

	back := FromTable(table)
	expected := mustParse(t, `[{"a": 1, "b": "x"}, {"a": 2, "b": null}]`)
	assert.True(t, expected.Equal(back), "FromTable gave %s", back)
}

func TestExporterTasks(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir, nil)
	raw := mustParse(t, `[{"a": 1}]`)

	var tasks []*Task
	for _, f := range Formats {
		tasks = append(tasks, exp.Start(raw, f, Options{Now: fixedNow}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, task := range tasks {
		res, err := task.Wait(ctx)
		require.NoError(t, err, "format %s", task.Format)
		assert.Equal(t, TaskSucceeded, task.State())
		assert.FileExists(t, res.Path)
		assert.NotEmpty(t, task.ID)
	}
}

func TestExporterTaskFailure(t *testing.T) {
	exp := NewExporter(t.TempDir(), nil)
	task := exp.Start(mustParse(t, `[1]`), FormatExcel, Options{SheetName: "bad/name"})

	<-task.Done()
	assert.Equal(t, TaskFailed, task.State())

	_, err := task.Wait(context.Background())
	assert.ErrorIs(t, err, ErrExportGeneration)
}
