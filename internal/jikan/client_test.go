package jikan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animehub/pkg/cache"
	"animehub/pkg/config"
	"animehub/pkg/models"
)

func testConfig(baseURL string) config.JikanConfig {
	return config.JikanConfig{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		RatePerSec: 1000,
		RateBurst:  1000,
		CacheTTL:   time.Minute,
	}
}

// memoryCache is a map-backed cache.Cache for tests
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, target interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, target)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestGetAnime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime/5", r.URL.Path)
		json.NewEncoder(w).Encode(animeEnvelope{Data: Anime{
			MalID: 5, Title: "Cowboy Bebop: Tengoku no Tobira", Type: "Movie", Score: 8.38,
		}})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	anime, err := c.GetAnime(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), anime.MalID)
	assert.Equal(t, "Cowboy Bebop: Tengoku no Tobira", anime.Title)
}

func TestGetAnimeRetriesOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(animeEnvelope{Data: Anime{MalID: 5, Title: "ok"}})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	anime, err := c.GetAnime(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "ok", anime.Title)
	assert.Equal(t, 3, calls)
}

func TestGetAnimeExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.GetAnime(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Equal(t, 3, calls) // initial attempt + MaxRetries
}

func TestGetAnimeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.GetAnime(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetAnimeServedFromCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(animeEnvelope{Data: Anime{MalID: 5, Title: "cached"}})
	}))
	defer server.Close()

	mc := newMemoryCache()
	c := NewClient(testConfig(server.URL), mc)

	first, err := c.GetAnime(context.Background(), 5)
	require.NoError(t, err)
	second, err := c.GetAnime(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, mc.sets)
	assert.Equal(t, first.Title, second.Title)
}

func TestSearchAnimeBuildsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "fullmetal", r.URL.Query().Get("q"))
		assert.Equal(t, "tv", r.URL.Query().Get("type"))
		assert.Equal(t, "score", r.URL.Query().Get("order_by"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(SearchResult{
			Data:       []Anime{{MalID: 5114, Title: "Fullmetal Alchemist: Brotherhood"}},
			Pagination: Pagination{HasNextPage: true, CurrentPage: 2, LastVisiblePage: 9},
		})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	result, err := c.SearchAnime(context.Background(), SearchParams{
		Query: "fullmetal", Type: "tv", OrderBy: "score", Page: 2,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.True(t, result.Pagination.HasNextPage)
	assert.Equal(t, 2, result.Pagination.CurrentPage)
}

func TestSearchAnimeSeasonalPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2024/winter", r.URL.Path)
		json.NewEncoder(w).Encode(SearchResult{Data: []Anime{{MalID: 1}}})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	result, err := c.SearchAnime(context.Background(), SearchParams{Season: "winter", Year: 2024})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}

func TestGetAnimeCharacters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime/5/characters", r.URL.Path)
		json.NewEncoder(w).Encode(animeCharactersEnvelope{Data: []AnimeCharacter{
			{Character: Character{MalID: 1, Name: "Spike Spiegel"}, Role: "Main"},
		}})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil)
	characters, err := c.GetAnimeCharacters(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Spike Spiegel", characters[0].Character.Name)
	assert.Equal(t, "Main", characters[0].Role)
}

func TestInvalidIDsRejectedLocally(t *testing.T) {
	c := NewClient(testConfig("http://unused"), nil)

	_, err := c.GetAnime(context.Background(), 0)
	assert.Error(t, err)
	_, err = c.GetCharacter(context.Background(), -1)
	assert.Error(t, err)
	_, err = c.GetAnimeCharacters(context.Background(), 0)
	assert.Error(t, err)
}
