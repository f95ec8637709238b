package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rawStyle string
	rawPlain bool
)

var rawCmd = &cobra.Command{
	Use:   "raw [input|-]",
	Short: "Print the original value as indented JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRaw,
}

func init() {
	rawCmd.Flags().StringVar(&rawStyle, "style", "monokai", "Syntax highlighting style")
	rawCmd.Flags().BoolVar(&rawPlain, "plain", false, "Disable syntax highlighting")
}

func runRaw(cmd *cobra.Command, args []string) error {
	res, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	data, err := res.Raw.Indent()
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if rawPlain {
		fmt.Fprintln(out, string(data))
		return nil
	}
	if !strings.EqualFold(styles.Get(rawStyle).Name, rawStyle) {
		logger.Debug("unknown highlight style, using fallback", zap.String("style", rawStyle))
	}
	if err := quick.Highlight(out, string(data)+"\n", "json", "terminal256", rawStyle); err != nil {
		return fmt.Errorf("highlight failed: %w", err)
	}
	return nil
}
