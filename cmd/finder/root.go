package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workshop_finder/internal/adapters/finderapi"
	"workshop_finder/internal/adapters/geolocation"
	"workshop_finder/internal/adapters/nominatim"
	"workshop_finder/internal/adapters/observability"
	redisad "workshop_finder/internal/adapters/redis"
	"workshop_finder/internal/app"
	"workshop_finder/internal/domain"
	"workshop_finder/internal/shared"
	mysqlrepo "workshop_finder/internal/storage/mysql"
	"workshop_finder/internal/view"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Find car repair workshops near you and review them.",
	Long: `finder locates you (device position, postcode, place name or coordinates), ` +
		`lists nearby workshops from the finder server and submits ratings and reviews.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = shared.Load()
		// set global logger (console in dev, JSON otherwise)
		log.Logger = observability.NewLogger(cfg.AppEnv)
	},
}

// deps is everything a command needs, wired from cfg.
type deps struct {
	ctl     *app.Controller
	list    *view.List
	layer   *view.MarkerLayer
	journal *mysqlrepo.Journal // nil without MYSQL_DSN
	closers []func() error
}

func (d *deps) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

func build(ctx context.Context, alert domain.Alerter) (*deps, error) {
	api, err := finderapi.New(cfg.FinderBase, finderapi.Options{
		Timeout:   cfg.HTTPTimeout,
		RPS:       cfg.RPS,
		Retries:   cfg.Retries,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("finder client: %w", err)
	}
	d := &deps{list: view.NewList(), layer: view.NewMarkerLayer()}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; geocode cache disabled")
			_ = rc.Close()
		} else {
			cache = rc
			d.closers = append(d.closers, rc.Close)
		}
	}

	if cfg.MySQLDSN != "" {
		mc, err := mysql.ParseDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("MYSQL_DSN: %w", err)
		}
		mc.ParseTime = true // journal rows scan into time.Time
		db, err := sql.Open("mysql", mc.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		d.journal = mysqlrepo.New(db)
		d.closers = append(d.closers, db.Close)
		log.Debug().Msg("submission journal enabled")
	}

	gc := nominatim.New(cfg.NominatimBase, cfg.UserAgent, cfg.HTTPTimeout)
	loc := app.NewLocationService(api, geolocator(), gc, cache, cfg.GeocodeTTL)
	d.ctl = app.NewController(api, loc, d.layer, d.list, alert)
	if d.journal != nil {
		d.ctl.WithJournal(d.journal)
	}
	return d, nil
}

// geolocator picks the device position source; nil means geolocation is unsupported.
func geolocator() domain.Geolocator {
	switch {
	case cfg.HomeLat != nil && cfg.HomeLon != nil:
		return geolocation.Fixed{At: domain.Coords{Lat: *cfg.HomeLat, Lon: *cfg.HomeLon}}
	case cfg.IPGeoURL != "":
		return geolocation.NewIPLookup(cfg.IPGeoURL, cfg.HTTPTimeout)
	}
	return nil
}

// ---- shared location flags ----

type locationFlags struct {
	geolocate bool
	postcode  string
	place     string
	lat, lon  float64
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.geolocate, "geolocate", false, "use the device position (default when no other location is given)")
	cmd.Flags().StringVar(&f.postcode, "postcode", "", "UK postcode to search around")
	cmd.Flags().StringVar(&f.place, "place", "", "town or place name to search around")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude (with --lon)")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude (with --lat)")
	cmd.MarkFlagsMutuallyExclusive("geolocate", "postcode", "place", "lat")
	cmd.MarkFlagsMutuallyExclusive("geolocate", "postcode", "place", "lon")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

func (f *locationFlags) request(cmd *cobra.Command) app.LocateRequest {
	switch {
	case cmd.Flags().Changed("postcode"):
		return app.LocateRequest{Mode: app.LocatePostcode, Postcode: f.postcode}
	case cmd.Flags().Changed("place"):
		return app.LocateRequest{Mode: app.LocatePlace, Place: f.place}
	case cmd.Flags().Changed("lat"):
		return app.LocateRequest{Mode: app.LocateManual, Lat: f.lat, Lon: f.lon}
	}
	return app.LocateRequest{Mode: app.LocateGeolocation}
}
