package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	exportFormats []string
	exportDir     string
	exportName    string
	sheetName     string
)

var exportCmd = &cobra.Command{
	Use:   "export [input|-]",
	Short: "Export the result as CSV, JSON, Excel or PDF",
	Long: `Export writes one file per requested format into the export directory.

Without --query or --sort the original value is exported unchanged. With
either flag the matching rows are exported in view order, without pagination.`,
	Example: `  fraudtab export result.json --format csv,excel,pdf
  fraudtab export result.json -f csv -q refund --sort amount --desc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	addViewFlags(exportCmd)
	exportCmd.Flags().StringSliceVarP(&exportFormats, "format", "f", []string{"csv"}, "Formats: csv, json, excel, pdf")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringVar(&exportName, "filename", "", "Base filename (default fraud-detection-export-<date>)")
	exportCmd.Flags().StringVar(&sheetName, "sheet-name", "", "Worksheet name for Excel exports")
}

func runExport(cmd *cobra.Command, args []string) error {
	formats := make([]output.Format, 0, len(exportFormats))
	for _, name := range exportFormats {
		f, err := output.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	res, err := loadInput(cmd, args)
	if err != nil {
		return err
	}

	opts := libOptions()
	if sheetName != "" {
		opts.SheetName = sheetName
	}
	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir
	}

	raw := res.Raw
	if query != "" || sortKey != "" {
		raw = res.ViewValue(viewState(opts))
	}

	name := exportName
	if len(formats) > 1 {
		// One base name, one extension per format.
		name = trimFormatExtension(name)
	}
	exportOpts := opts.ExportOptions(name, res.Subtitle())

	exporter := output.NewExporter(dir, logger)
	g, ctx := errgroup.WithContext(cmd.Context())
	var mu sync.Mutex

	for _, format := range formats {
		task := exporter.Start(raw, format, exportOpts)
		g.Go(func() error {
			result, err := task.Wait(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("export finished", zap.Int("formats", len(formats)), zap.String("dir", dir))
	return nil
}

// trimFormatExtension drops a trailing export extension such as ".csv" and
// leaves any other dotted suffix in place.
func trimFormatExtension(name string) string {
	ext := filepath.Ext(name)
	if f, err := output.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && strings.EqualFold(ext, "."+f.Extension()) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
