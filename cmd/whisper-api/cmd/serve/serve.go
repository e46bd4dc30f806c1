package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-api/internal/api/server"
	"whisper-api/internal/app"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 2*time.Minute,
		"how long in-flight transcriptions may run after a stop signal")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /transcribe on " + server.Address,
	Long: `Serve the transcription API on ` + server.Address + `.

The model backend is initialized before the listener opens. Requests are
processed to completion even if the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := app.Bootstrap(app.Options{ConfigPath: configPath, Verbose: verbose})
		if err != nil {
			return err
		}
		defer a.Logger.Sync()

		info := a.Provider.GetProviderInfo()
		srv := server.NewServer(server.Config{
			Environment:       a.Config.Server.Environment,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
		}, server.Dependencies{
			Pipeline: a.Pipeline,
			Provider: info,
			Metrics:  a.Metrics,
			Gatherer: a.Registry,
			Logger:   a.Logger,
		})

		if err := srv.Start(); err != nil {
			return fmt.Errorf("listen on %s: %w", server.Address, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		a.Logger.Info("stop signal received", zap.Duration("shutdown_timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
