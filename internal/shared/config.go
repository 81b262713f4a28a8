package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	FinderBase    string
	NominatimBase string
	IPGeoURL      string
	HomeLat       *float64
	HomeLon       *float64
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	GeocodeTTL    time.Duration
	HTTPTimeout   time.Duration
	Retries       int
	RPS           int
	UserAgent     string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", "127.0.0.1:8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		FinderBase:    env("FINDER_BASE_URL", "http://localhost:5000"),
		NominatimBase: env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		IPGeoURL:      env("IPGEO_URL", ""),
		HomeLat:       floatEnv("FINDER_HOME_LAT"),
		HomeLon:       floatEnv("FINDER_HOME_LON"),
		MySQLDSN:      env("MYSQL_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		GeocodeTTL:    time.Duration(atoi("GEOCODE_CACHE_TTL_SECONDS", 86400)) * time.Second,
		HTTPTimeout:   time.Duration(atoi("FINDER_HTTP_TIMEOUT_SECONDS", 20)) * time.Second,
		Retries:       atoi("FINDER_RETRIES", 0),
		RPS:           atoi("FINDER_RPS", 5),
		UserAgent:     env("USER_AGENT", "workshop-finder/1.0"),
	}
	if (c.HomeLat == nil) != (c.HomeLon == nil) {
		log.Warn().Msg("FINDER_HOME_LAT and FINDER_HOME_LON must be set together; ignoring both")
		c.HomeLat, c.HomeLon = nil, nil
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func floatEnv(k string) *float64 {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		return nil
	}
	return &f
}
