package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parsherm/country-finder/internal/cache"
	"github.com/Parsherm/country-finder/internal/domain"
)

// Mock for cache.Cache
type MockCache struct {
	GetFunc func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return m.GetFunc(ctx, key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

// Mock for CountryClient
type MockClient struct {
	GetByNameFunc func(ctx context.Context, name string) (*domain.Country, error)
}

func (m *MockClient) GetByName(ctx context.Context, name string) (*domain.Country, error) {
	return m.GetByNameFunc(ctx, name)
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestLookup_CacheHit(t *testing.T) {
	mockCountry := &domain.Country{Name: "India", Region: "Asia", Population: 1400000000}
	clientCalled := false

	mockCache := &MockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) {
			assert.Equal(t, "india", key)
			return mustMarshal(t, mockCountry), true, nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			t.Fail()
			return nil
		},
	}

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			clientCalled = true
			return nil, nil
		},
	}

	svc := New(mockCache, mockClient, time.Hour)
	country, err := svc.Lookup(context.Background(), "  India ")

	require.NoError(t, err)
	assert.Equal(t, mockCountry, country)
	assert.False(t, clientCalled, "Client should not be called on cache hit")
}

func TestLookup_CacheMiss_Success(t *testing.T) {
	mockCountry := &domain.Country{Name: "Germany", Region: "Europe", Population: 83000000}
	clientCalled := false
	cacheSetCalled := false

	mockCache := &MockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) {
			assert.Equal(t, "germany", key)
			return nil, false, nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			cacheSetCalled = true
			assert.Equal(t, "germany", key)
			assert.Equal(t, time.Hour, ttl)
			assert.JSONEq(t, string(mustMarshal(t, mockCountry)), string(value))
			return nil
		},
	}

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			clientCalled = true
			assert.Equal(t, "germany", name)
			return mockCountry, nil
		},
	}

	svc := New(mockCache, mockClient, time.Hour)
	country, err := svc.Lookup(context.Background(), "Germany")

	require.NoError(t, err)
	assert.Equal(t, mockCountry, country)
	assert.True(t, clientCalled, "Client should be called on cache miss")
	assert.True(t, cacheSetCalled, "Cache.Set should be called on cache miss")
}

func TestLookup_CacheMiss_ClientError(t *testing.T) {
	clientError := errors.New("API is down")
	cacheSetCalled := false

	mockCache := &MockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil },
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			cacheSetCalled = true
			return nil
		},
	}

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			return nil, clientError
		},
	}

	svc := New(mockCache, mockClient, time.Hour)
	_, err := svc.Lookup(context.Background(), "France")

	require.Error(t, err)
	assert.Equal(t, clientError, err)
	assert.False(t, cacheSetCalled, "Cache.Set should not be called when client fails")
}

func TestLookup_CacheUnreachable_FetchesDirectly(t *testing.T) {
	mockCountry := &domain.Country{Name: "Japan", Region: "Asia", Population: 125800000}

	mockCache := &MockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, domain.ErrUnavailable
		},
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			return domain.ErrUnavailable
		},
	}

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			return mockCountry, nil
		},
	}

	svc := New(mockCache, mockClient, time.Hour)
	country, err := svc.Lookup(context.Background(), "Japan")

	require.NoError(t, err, "cache failures must not fail the lookup")
	assert.Equal(t, mockCountry, country)
}

func TestLookup_CorruptCacheEntry_Refetches(t *testing.T) {
	mockCountry := &domain.Country{Name: "Brazil", Region: "Americas"}
	clientCalled := false
	cacheSetCalled := false

	mockCache := &MockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) {
			return []byte("{not json"), true, nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			cacheSetCalled = true
			return nil
		},
	}

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			clientCalled = true
			return mockCountry, nil
		},
	}

	svc := New(mockCache, mockClient, time.Hour)
	country, err := svc.Lookup(context.Background(), "Brazil")

	require.NoError(t, err)
	assert.Equal(t, mockCountry, country)
	assert.True(t, clientCalled, "a corrupt entry is a miss")
	assert.True(t, cacheSetCalled, "the corrupt entry should be overwritten")
}

func TestLookup_EmptyName(t *testing.T) {
	svc := New(nil, nil, time.Hour) // dependencies must not be touched

	_, err := svc.Lookup(context.Background(), "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestLookup_Idempotence(t *testing.T) {
	mockCountry := &domain.Country{
		Name:       "Japan",
		FlagURL:    "https://flagcdn.com/w320/jp.png",
		Population: 125836021,
		Region:     "Asia",
		Capital:    "Tokyo",
		Currency:   "Japanese yen (¥)",
		Languages:  "Japanese",
	}
	clientCalls := 0

	mockClient := &MockClient{
		GetByNameFunc: func(ctx context.Context, name string) (*domain.Country, error) {
			clientCalls++
			return mockCountry, nil
		},
	}

	mem, err := cache.NewMemory(time.Hour)
	require.NoError(t, err)
	defer mem.Close()

	svc := New(mem, mockClient, time.Hour)

	first, err := svc.Lookup(context.Background(), "Japan")
	require.NoError(t, err)

	second, err := svc.Lookup(context.Background(), "JAPAN")
	require.NoError(t, err)

	assert.Equal(t, 1, clientCalls, "second lookup must be served from cache")
	assert.Equal(t, first, second, "cached content must be identical")
}
