// Package jikan implements a typed client for the upstream anime data API.
// The upstream is shared and rate limited, so the client combines a local
// token-bucket limiter, retry with backoff on 429, and a read-through cache.
package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"animehub/pkg/cache"
	"animehub/pkg/config"
	"animehub/pkg/logger"
	"animehub/pkg/models"
)

// Client defines the anime data operations the API layer consumes
type Client interface {
	GetAnime(ctx context.Context, id int64) (*Anime, error)
	GetCharacter(ctx context.Context, id int64) (*Character, error)
	GetAnimeCharacters(ctx context.Context, animeID int64) ([]AnimeCharacter, error)
	SearchAnime(ctx context.Context, params SearchParams) (*SearchResult, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates an anime data client. cache may be nil to disable the
// read-through layer.
func NewClient(cfg config.JikanConfig, c cache.Cache) Client {
	return &client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		cache:      c,
		cacheTTL:   cfg.CacheTTL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// GetAnime fetches one anime by its upstream id
func (c *client) GetAnime(ctx context.Context, id int64) (*Anime, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid anime id: %d", id)
	}

	var envelope animeEnvelope
	key := fmt.Sprintf("jikan:anime:%d", id)
	if err := c.fetch(ctx, fmt.Sprintf("/anime/%d", id), key, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// GetCharacter fetches one character by its upstream id
func (c *client) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid character id: %d", id)
	}

	var envelope characterEnvelope
	key := fmt.Sprintf("jikan:character:%d", id)
	if err := c.fetch(ctx, fmt.Sprintf("/characters/%d", id), key, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// GetAnimeCharacters fetches the character listing of an anime
func (c *client) GetAnimeCharacters(ctx context.Context, animeID int64) ([]AnimeCharacter, error) {
	if animeID <= 0 {
		return nil, fmt.Errorf("invalid anime id: %d", animeID)
	}

	var envelope animeCharactersEnvelope
	key := fmt.Sprintf("jikan:anime:%d:characters", animeID)
	if err := c.fetch(ctx, fmt.Sprintf("/anime/%d/characters", animeID), key, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// SearchAnime runs a filtered anime search
func (c *client) SearchAnime(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Genres != "" {
		query.Set("genres", params.Genres)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Type != "" {
		query.Set("type", params.Type)
	}
	if params.OrderBy != "" {
		query.Set("order_by", params.OrderBy)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	// The upstream serves seasonal listings from a dedicated path
	path := "/anime"
	if params.Season != "" && params.Year > 0 {
		path = fmt.Sprintf("/seasons/%d/%s", params.Year, params.Season)
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result SearchResult
	key := "jikan:search:" + path
	if err := c.fetch(ctx, path, key, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// fetch resolves one GET through the cache, the limiter and the retry loop
func (c *client) fetch(ctx context.Context, path, cacheKey string, target interface{}) error {
	if c.cache != nil {
		err := c.cache.Get(ctx, cacheKey, target)
		if err == nil {
			return nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warnf("Anime cache read failed for %s: %v", cacheKey, err)
		}
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, target, c.cacheTTL); err != nil {
			logger.Warnf("Anime cache write failed for %s: %v", cacheKey, err)
		}
	}
	return nil
}

// get performs the rate-limited GET, retrying 429 and 5xx with exponential
// backoff until maxRetries is exhausted.
func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Upstream(path, 0, attempt+1)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		logger.Upstream(path, resp.StatusCode, attempt+1)

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("failed to read upstream response: %w", readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, models.ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			continue
		default:
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}
	}

	return nil, models.ErrUpstreamUnavailable
}
