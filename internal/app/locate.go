package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"workshop_finder/internal/domain"
)

// LocationService resolves the user's position through whichever path the user picked.
// Only postcode and place lookups are cached; workshops never are.
type LocationService struct {
	api      domain.FinderAPI
	geo      domain.Geolocator // nil: geolocation unsupported
	geocoder domain.Geocoder
	cache    domain.Cache // optional
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewLocationService(api domain.FinderAPI, geo domain.Geolocator, gc domain.Geocoder, cache domain.Cache, ttl time.Duration) *LocationService {
	return &LocationService{api: api, geo: geo, geocoder: gc, cache: cache, cacheTTL: ttl}
}

func (s *LocationService) Geolocate(ctx context.Context) (domain.Location, error) {
	if s.geo == nil {
		return domain.Location{}, opErr(OpGeolocate, domain.ErrGeolocationUnsupported)
	}
	c, err := s.geo.CurrentPosition(ctx)
	if err != nil {
		return domain.Location{}, opErr(OpGeolocate, err)
	}
	if !c.Valid() {
		return domain.Location{}, opErr(OpGeolocate, domain.ErrInvalidCoords)
	}
	return domain.Location{Coords: c, Source: domain.SourceGeolocation}, nil
}

func (s *LocationService) FromPostcode(ctx context.Context, postcode string) (domain.Location, error) {
	pc := NormalizePostcode(postcode)
	if pc == "" {
		return domain.Location{}, opErr(OpPostcode, domain.ErrPostcodeRequired)
	}
	loc, err := s.resolve(ctx, "postcode:"+pc, func(ctx context.Context) (domain.Location, error) {
		c, err := s.api.PostcodeLocation(ctx, pc)
		if err != nil {
			return domain.Location{}, err
		}
		return domain.Location{Coords: c, Source: domain.SourcePostcode, Label: pc}, nil
	})
	if err != nil {
		return domain.Location{}, opErr(OpPostcode, err)
	}
	return loc, nil
}

func (s *LocationService) FromPlace(ctx context.Context, place string) (domain.Location, error) {
	q := strings.Join(strings.Fields(place), " ")
	if q == "" {
		return domain.Location{}, opErr(OpPlace, domain.ErrPlaceRequired)
	}
	loc, err := s.resolve(ctx, "place:"+strings.ToLower(q), func(ctx context.Context) (domain.Location, error) {
		places, err := s.geocoder.Search(ctx, q)
		if err != nil {
			return domain.Location{}, err
		}
		if len(places) == 0 {
			return domain.Location{}, fmt.Errorf("%q: %w", q, domain.ErrLocationNotFound)
		}
		p := places[0]
		return domain.Location{Coords: p.Coords, Source: domain.SourcePlace, Label: p.DisplayName}, nil
	})
	if err != nil {
		return domain.Location{}, opErr(OpPlace, err)
	}
	return loc, nil
}

// Manual accepts coordinates typed in by the user.
func (s *LocationService) Manual(lat, lon float64) (domain.Location, error) {
	c := domain.Coords{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Location{}, opErr(OpManual, domain.ErrInvalidCoords)
	}
	return domain.Location{Coords: c, Source: domain.SourceManual}, nil
}

// resolve serves key from the cache, coalescing concurrent misses into one lookup.
// Cache failures fall through to a live lookup.
func (s *LocationService) resolve(ctx context.Context, key string, lookup func(context.Context) (domain.Location, error)) (domain.Location, error) {
	if s.cache != nil {
		var hit domain.Location
		ok, err := s.cache.Get(ctx, key, &hit)
		switch {
		case err == nil && ok:
			return hit, nil
		case errors.Is(err, domain.ErrCacheCorrupt):
			log.Warn().Err(err).Str("key", key).Msg("evicting corrupt geocode cache entry")
			if err := s.cache.Del(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("geocode cache del failed")
			}
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("geocode cache get failed")
		}
	}

	// the shared lookup outlives any single caller; the client timeout bounds it
	lctx := context.WithoutCancel(ctx)
	v, err, shared := s.sf.Do(key, func() (any, error) {
		loc, err := lookup(lctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(lctx, key, loc, int(s.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("geocode cache set failed")
			}
		}
		return loc, nil
	})
	if err != nil {
		return domain.Location{}, err
	}
	if shared {
		log.Debug().Str("key", key).Msg("geocode lookup coalesced")
	}
	return v.(domain.Location), nil
}

// NormalizePostcode upper-cases and collapses whitespace ("  sw1a  1aa " -> "SW1A 1AA").
func NormalizePostcode(pc string) string {
	return strings.ToUpper(strings.Join(strings.Fields(pc), " "))
}

