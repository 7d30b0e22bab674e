package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/virp/go-shortener/internal/app/handlers"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			store, err := a.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("close store: %v", err)
				}
			}()

			table, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("load links: %w", err)
			}

			ln, err := net.Listen("tcp", a.cfg.Addr())
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			srv := newServer(handlers.NewRouter(handlers.Handlers{Store: store}))

			log.Printf("shortener listening on %s", ln.Addr())
			log.Printf("store: backend=%s links=%d", a.cfg.Backend, len(table))

			// in-flight creates finish before the deferred store close
			if err := runServer(ctx, srv, ln, a.cfg.ShutdownTimeout); err != nil {
				return err
			}
			log.Printf("shortener stopped")

			return nil
		},
	}
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

// runServer serves on ln until ctx is done, then shuts srv down, waiting up
// to shutdownTimeout for in-flight requests.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
