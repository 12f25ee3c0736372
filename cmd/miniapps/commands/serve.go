package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// serve: run the web front-end until SIGINT or SIGTERM. SIGHUP locks the wallet.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the wallet page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config
			log := wire.Logger

			srv := &http.Server{
				Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
				Handler:      wire.Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Mini-apps server started", map[string]interface{}{
					"address": srv.Addr,
					"network": string(wire.Wallet.Network()),
					"backend": wire.Backend.BaseURL(),
					"wallet":  string(wire.Wallet.State()),
				})
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			cleanup := time.NewTicker(time.Minute)
			defer cleanup.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer signal.Stop(quit)

		loop:
			for {
				select {
				case err, ok := <-errCh:
					if ok {
						log.Error("Server failed to start", map[string]interface{}{"error": err.Error()})
						return err
					}
					break loop
				case <-cleanup.C:
					wire.Limiter.Cleanup()
				case sig := <-quit:
					if sig == syscall.SIGHUP {
						if wire.Lock() {
							log.Info("Wallet locked", nil)
						}
						continue
					}
					break loop
				}
			}

			log.Info("Shutting down mini-apps server...", nil)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
				return err
			}

			log.Info("Mini-apps server stopped gracefully", nil)
			return nil
		},
	}
}
