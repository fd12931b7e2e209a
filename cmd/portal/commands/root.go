package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/app"
	"github.com/Freeeeeet/glee_portal/internal/config"
)

// NewRootCmd builds the portal command tree. Subcommands share one AppContext
// initialized before they run.
func NewRootCmd() *cobra.Command {
	appCtx := &AppContext{}
	var stop context.CancelFunc

	rootCmd := &cobra.Command{
		Use:          "portal",
		Short:        "Glee portal backend: audition scheduling and member notifications",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Ctx, stop = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			return initApp(appCtx)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx.App != nil {
				appCtx.App.Close()
			}
			if appCtx.Logger != nil {
				_ = appCtx.Logger.Sync()
			}
			if stop != nil {
				stop()
			}
		},
	}

	rootCmd.AddCommand(ServeCmd(appCtx))
	rootCmd.AddCommand(MigrateCmd(appCtx))
	rootCmd.AddCommand(ReconcileCmd(appCtx))
	rootCmd.AddCommand(SlotsCmd(appCtx))

	return rootCmd
}

// initApp loads config, sets up the logger and connects the services
func initApp(appCtx *AppContext) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appCtx.Cfg = cfg

	logger, err := app.NewLogger(cfg.Environment, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	appCtx.Logger = logger

	logger.Info("Starting portal",
		zap.String("environment", cfg.Environment),
		zap.Bool("env_file_loaded", cfg.EnvFileLoaded))

	appCtx.App, err = app.New(appCtx.Ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	return nil
}
