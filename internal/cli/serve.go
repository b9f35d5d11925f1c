package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/history"
	"github.com/nahidhasan/picklist-export/internal/web"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the export web UI",
		Long: `Serve starts an HTTP server hosting a browser UI for running exports,
streaming progress, cancelling runs and downloading reports. When
DATABASE_URL is set, finished runs are recorded in PostgreSQL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newOrgClient(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var store *history.Store
			if cfg.HistoryEnabled() {
				store, err = history.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
				if err != nil {
					return fmt.Errorf("open history store: %w", err)
				}
				defer store.Close()
				slog.Info("run history enabled")
			}

			srv := web.NewServer(cfg, client, store)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				slog.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}

			slog.Info("server stopped")
			return nil
		},
	}
}
