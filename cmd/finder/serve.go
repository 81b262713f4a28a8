package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	server "workshop_finder/internal/adapters/http_server"
	"workshop_finder/internal/adapters/observability"
	"workshop_finder/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the finder page locally.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		flash := &server.FlashAlerter{}
		d, err := build(ctx, flash)
		if err != nil {
			return err
		}
		defer d.Close()

		// like the page load: try the device position first
		if geolocator() != nil {
			_ = d.ctl.Locate(ctx, app.LocateRequest{Mode: app.LocateGeolocation})
		}

		reg := observability.InitRegistry()
		srv := server.New()
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.MountHandlers(&server.Handlers{Ctl: d.ctl, List: d.list, Map: d.layer, Flash: flash})

		servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}}
		if ms := observability.NewMetricsServer(cfg.MetricsAddr, reg); ms != nil {
			servers = append(servers, ms)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, s := range servers {
			s := s
			g.Go(func() error {
				log.Info().Str("addr", s.Addr).Msg("listening")
				if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			for _, s := range servers {
				if err := s.Shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Str("addr", s.Addr).Msg("shutdown failed")
				}
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
