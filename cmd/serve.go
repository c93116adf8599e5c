package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/ytnotes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ytnotes web app and HTTP API",
	Long: `Starts an HTTP server that serves the browser front end, the POST /generate_notes
endpoint, note history, semantic search and Prometheus metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow requests from any origin (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all-origins"); allowAll {
		cfg.AllowAllOrigins = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowAll:       cfg.AllowAllOrigins,
		RequestTimeout: cfg.RequestTimeoutDuration(),
		Logger:         logger,
	}, server.Deps{
		Notes:   a.notes,
		History: a.history,
		Search:  a.index,
		Metrics: a.metrics,
	})

	logger.Info("starting ytnotes", "provider", cfg.Provider, "model", cfg.Model, "url", "http://localhost"+srv.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
