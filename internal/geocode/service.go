package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

// Service resolves places through the cache, then the built-in table, then the remote geocoder.
type Service struct {
	cache     service.PlaceCache
	gazetteer *Gazetteer
	remote    service.Geocoder
	offline   bool
}

// NewService composes a geocoding service. remote may be nil, which behaves as offline.
func NewService(cache service.PlaceCache, gazetteer *Gazetteer, remote service.Geocoder, offline bool) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Service{
		cache:     cache,
		gazetteer: gazetteer,
		remote:    remote,
		offline:   offline || remote == nil,
	}
}

// Lookup implements service.Geocoder.
func (s *Service) Lookup(ctx context.Context, place string) (*model.Location, error) {
	key := NormalizePlace(place)
	if key == "" {
		return nil, fmt.Errorf("%w: empty place", common.ErrLocationNotFound)
	}

	loc, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		common.LogWarn("Place cache read failed", common.Fields{"place": key, "error": err.Error()})
	} else if ok {
		common.LogDebug("Using cached location", common.Fields{"place": key})
		return loc, nil
	}

	if s.gazetteer != nil {
		if loc, ok := s.gazetteer.Lookup(place); ok {
			s.remember(ctx, key, loc)
			return loc, nil
		}
	}

	if s.offline {
		return nil, fmt.Errorf("%w: %q is not a built-in city", common.ErrOfflineLookup, strings.TrimSpace(place))
	}

	loc, err = s.remote.Lookup(ctx, place)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, loc)
	return loc, nil
}

func (s *Service) remember(ctx context.Context, key string, loc *model.Location) {
	if err := s.cache.Set(ctx, key, loc); err != nil {
		common.LogWarn("Place cache write failed", common.Fields{"place": key, "error": err.Error()})
	}
}
