package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Parsherm/country-finder/internal/cache"
	"github.com/Parsherm/country-finder/internal/domain"
	"github.com/Parsherm/country-finder/internal/logger"
)

// CountryClient defines the interface for the external country data source.
// This allows us to mock the client in tests.
type CountryClient interface {
	GetByName(ctx context.Context, name string) (*domain.Country, error)
}

// LookupService defines the country lookup contract used by the UI.
type LookupService interface {
	Lookup(ctx context.Context, name string) (*domain.Country, error)
}

type lookupService struct {
	cache  cache.Cache
	client CountryClient
	ttl    time.Duration
	log    *slog.Logger
}

// New creates a lookup service with a cache-first strategy. ttl is how long
// fetched records stay cached.
func New(c cache.Cache, client CountryClient, ttl time.Duration) LookupService {
	return &lookupService{
		cache:  c,
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("lookup"),
	}
}

// Lookup retrieves country information, consulting the cache before the
// upstream API. Cache failures are not fatal: the store is an optimization,
// so an unreachable or corrupt cache degrades to a direct fetch.
func (s *lookupService) Lookup(ctx context.Context, name string) (*domain.Country, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", domain.ErrInvalidName)
	}

	if data, found, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("cache unreachable, fetching directly", "country", key, "error", err)
	} else if found {
		var country domain.Country
		if err := json.Unmarshal(data, &country); err != nil {
			// A corrupt entry is treated as a miss and overwritten below.
			s.log.Warn("corrupt cache entry, refetching", "country", key, "error", err)
		} else {
			s.log.Info("cache hit", "country", key)
			return &country, nil
		}
	}

	s.log.Info("cache miss, fetching from API", "country", key)
	country, err := s.client.GetByName(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(country)
	if err != nil {
		// Country is a plain struct; this cannot happen outside a
		// programming error, but a failed encode must not lose the result.
		s.log.Warn("failed to encode record for caching", "country", key, "error", err)
		return country, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn("failed to store record in cache", "country", key, "error", err)
		return country, nil
	}
	s.log.Info("cached record", "country", key, "ttl", s.ttl)

	return country, nil
}
