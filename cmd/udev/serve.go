package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/compose"
	"github.com/unistate/devenv/internal/server"
	"github.com/unistate/devenv/internal/stack"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only status API for the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		manifest, err := os.ReadFile(s.ManifestPath())
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		if _, err := compose.Parse(manifest); err != nil {
			return err
		}

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := &http.Server{
			Addr:    addr,
			Handler: server.New(s, manifest),
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		fmt.Printf("Status API on %s\n", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from UDEV_HTTP_ADDR)")
}
