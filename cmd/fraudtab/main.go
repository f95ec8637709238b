// Package main provides the CLI entry point for fraudtab.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/internal/config"
	"github.com/ukaji3/fraudtab-go/internal/logging"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fraudtab",
	Short: "Tabulate and export fraud analysis results",
	Long: `fraudtab turns fraud-analysis JSON of any shape into a searchable,
sortable table and exports it as CSV, JSON, Excel or PDF.

Input may be a JSON file, an .xlsx workbook written by fraudtab, or "-" for stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			Verbose:     verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(tableCmd, exportCmd, rawCmd, analyzeCmd, healthCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// libOptions maps the loaded config onto library options.
func libOptions() fraudtab.Options {
	return fraudtab.Options{
		PageSize:  cfg.View.PageSize,
		Currency:  cfg.Format.Currency,
		Location:  cfg.GetLocation(),
		SheetName: cfg.Export.SheetName,
		Title:     cfg.Export.Title,
		PDFFont:   cfg.Export.PDFFont,
	}
}

func newClient() *upstream.Client {
	return upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.GetTimeout(),
	}, logger)
}

// loadInput reads the single input argument; "-" or no argument means stdin.
func loadInput(cmd *cobra.Command, args []string) (*fraudtab.Result, error) {
	if len(args) == 0 || args[0] == "-" {
		return fraudtab.LoadReader(cmd.InOrStdin())
	}
	return fraudtab.LoadFile(args[0])
}
