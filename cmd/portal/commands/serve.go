package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.AuthBaseURL == "" {
				return errors.New("AUTH_BASE_URL is required to serve")
			}
			if !skipMigrations {
				if err := app.App.Migrate(app.Ctx); err != nil {
					return err
				}
			}

			server := &http.Server{
				Addr:              app.Cfg.HTTPAddr,
				Handler:           app.App.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-app.Ctx.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					app.Logger.Error("HTTP shutdown failed", zap.Error(err))
				}
			}()

			app.Logger.Info("HTTP API listening", zap.String("addr", app.Cfg.HTTPAddr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			app.Logger.Info("HTTP API stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply schema migrations at startup")
	return cmd
}
