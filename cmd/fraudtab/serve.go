package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/fraudtab-go/internal/server"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the table and export API over HTTP",
	Long: `Serve starts the HTTP API together with a background monitor of the
analysis service. It shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := listenAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	client := newClient()
	monitor := upstream.NewMonitor(client, cfg.GetHealthInterval(), logger)

	h, err := server.NewHandler(libOptions(), client, monitor, logger)
	if err != nil {
		return err
	}
	router := server.NewRouter(h, server.Options{AllowedOrigins: cfg.Server.AllowedOrigins})

	logger.Info("starting server",
		zap.String("addr", addr),
		zap.String("upstream", cfg.Upstream.BaseURL))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		monitor.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return server.ListenAndServe(ctx, addr, router, logger)
	})
	return g.Wait()
}
