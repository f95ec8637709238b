package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
)

var (
	watch         bool
	watchInterval time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the analysis service",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and print every status change")
	healthCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Polling interval (default from config)")
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := newClient()
	out := cmd.OutOrStdout()

	if !watch {
		status, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}
		data, err := output.ToJSON(status, true)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	interval := watchInterval
	if interval <= 0 {
		interval = cfg.GetHealthInterval()
	}
	m := upstream.NewMonitor(client, interval, logger)
	m.OnChange(func(prev, cur upstream.Snapshot) {
		line := fmt.Sprintf("%s  %s", cur.CheckedAt.Format(time.RFC3339), cur.Status)
		if cur.Error != "" {
			line += ": " + cur.Error
		}
		fmt.Fprintln(out, line)
	})
	m.Run(cmd.Context())
	return nil
}
