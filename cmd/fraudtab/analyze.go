package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUploads bounds parallel calls to the analysis service.
const maxConcurrentUploads = 4

var (
	saveDir      string
	analyzePlain bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <statement>...",
	Short: "Upload statements to the analysis service and show the results",
	Long: `Analyze uploads each statement (PDF, JPG, JPEG or PNG) to the configured
analysis service and prints the verdict and first page of every result.

With --save-dir each result is also written as <statement>.json so it can be
re-opened with "fraudtab table" or exported later.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&saveDir, "save-dir", "", "Directory to save each result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzePlain, "plain", false, "Disable colors")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if err := upstream.ValidateUpload(path); err != nil {
			return err
		}
	}

	client := newClient()
	results := make([]models.RawValue, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentUploads)
	for i, path := range args {
		g.Go(func() error {
			raw, err := client.AnalyzeFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), describeUpstreamError(err))
			}
			results[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	opts := libOptions()
	f, err := opts.Formatter()
	if err != nil {
		return err
	}
	r := renderer{w: cmd.OutOrStdout(), plain: analyzePlain}

	for i, raw := range results {
		if saveDir != "" {
			path, err := saveResult(saveDir, args[i], raw)
			if err != nil {
				return err
			}
			logger.Info("saved analysis result", zap.String("path", path))
		}

		res := fraudtab.Load(raw)
		if len(results) > 1 {
			fmt.Fprintln(r.w, r.style(headerStyle, "== "+filepath.Base(args[i])+" =="))
		}
		r.verdict(res.Verdict)
		r.page(res.Present(res.View(opts.State()), f), "")
		if i < len(results)-1 {
			fmt.Fprintln(r.w)
		}
	}
	return nil
}

// describeUpstreamError flattens a validation error into its messages.
func describeUpstreamError(err error) error {
	var verr *upstream.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %s", upstream.ErrUpstreamValidationFailed, strings.Join(verr.Messages(), "; "))
	}
	return err
}

func saveResult(dir, statement string, raw models.RawValue) (string, error) {
	data, err := raw.Indent()
	if err != nil {
		return "", fmt.Errorf("serialization failed: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(statement), filepath.Ext(statement))
	path := filepath.Join(dir, base+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return path, nil
}
