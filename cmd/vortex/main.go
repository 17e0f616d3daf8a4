// Command vortex runs a bare connection-lifecycle engine with one of
// three named presets, mainly useful for smoke-testing the engine
// itself (curl against it) without writing a Go program.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vortexhttp/vortex/pkg/vortex/middleware"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

var (
	mode        string
	addr        string
	metricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "vortex",
		Short: "Run a vortex HTTP connection engine",
		RunE:  run,
	}
	root.Flags().StringVar(&mode, "mode", "basic", "configuration preset: basic, secure, or dev")
	root.Flags().StringVar(&addr, "addr", "", "listen address, overrides the preset's port/address")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Prometheus /metrics listen address, empty to disable")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := vortex.ConfigForMode(mode)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.LogLevel == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	listenAddr := addr
	if listenAddr == "" {
		listenAddr = net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port))
	}

	app := vortex.NewWithConfig(cfg)
	app.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logger())

	app.Get("/healthz", func(c *vortex.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("metrics listening")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("addr", listenAddr).Str("mode", mode).Msg("vortex listening")
	return app.Run(ctx, listenAddr)
}
