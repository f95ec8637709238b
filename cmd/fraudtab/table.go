package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/view"
)

var (
	query     string
	sortKey   string
	sortDesc  bool
	page      int
	pageSize  int
	plain     bool
	asJSON    bool
	prettyOut bool
)

var tableCmd = &cobra.Command{
	Use:   "table [input|-]",
	Short: "Show one page of the result as a table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTable,
}

func init() {
	addViewFlags(tableCmd)
	tableCmd.Flags().IntVar(&page, "page", 1, "Page to show")
	tableCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default from config)")
	tableCmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	tableCmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	tableCmd.Flags().BoolVar(&prettyOut, "pretty", false, "Pretty-print JSON output")
}

// addViewFlags registers the search and sort flags shared by table and export.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search across all cells")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "Column key to sort by")
	cmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending")
}

// viewState builds the view state from the shared flags.
func viewState(opts fraudtab.Options) view.State {
	size := opts.PageSize
	if pageSize > 0 {
		size = pageSize
	}
	s := view.NewState(size).WithQuery(query).WithPage(page)
	if sortKey != "" {
		dir := view.Ascending
		if sortDesc {
			dir = view.Descending
		}
		s = s.WithSort(view.SortSpec{Key: sortKey, Direction: dir})
	}
	return s
}

func runTable(cmd *cobra.Command, args []string) error {
	res, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	opts := libOptions()
	f, err := opts.Formatter()
	if err != nil {
		return err
	}

	state := viewState(opts)
	p := res.Present(res.View(state), f)

	if asJSON {
		data, err := output.ToJSON(p, prettyOut)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	r := renderer{w: cmd.OutOrStdout(), plain: plain}
	r.verdict(res.Verdict)
	r.page(p, state.Query)
	return nil
}
