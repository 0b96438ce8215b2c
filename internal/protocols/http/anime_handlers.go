package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"animehub/internal/jikan"
	"animehub/pkg/models"
)

// searchAnime proxies the upstream anime search. When the upstream is
// exhausted the listing degrades to an empty page with an error flag so the
// frontend can render cached community content around it.
func (s *Server) searchAnime(c *gin.Context) {
	params := jikan.SearchParams{
		Query:   c.Query("q"),
		Genres:  c.Query("genres"),
		Season:  c.Query("season"),
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		OrderBy: c.Query("order_by"),
		Sort:    c.Query("sort"),
	}
	if year := c.Query("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			failWith(c, 400, "invalid year")
			return
		}
		params.Year = y
	}
	if page := c.Query("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			failWith(c, 400, "invalid page")
			return
		}
		params.Page = p
	}
	if limit := c.Query("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l < 1 || l > 25 {
			failWith(c, 400, "invalid limit: must be between 1 and 25")
			return
		}
		params.Limit = l
	}

	result, err := s.animeClient.SearchAnime(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			ok(c, 200, "anime data temporarily unavailable", jikan.SearchResult{Data: []jikan.Anime{}})
			return
		}
		fail(c, err)
		return
	}

	ok(c, 200, "", result)
}

// getAnime proxies one anime lookup
func (s *Server) getAnime(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		failWith(c, 400, "invalid anime id")
		return
	}

	anime, err := s.animeClient.GetAnime(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", anime)
}

// getAnimeCharacters proxies an anime's character listing
func (s *Server) getAnimeCharacters(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		failWith(c, 400, "invalid anime id")
		return
	}

	characters, err := s.animeClient.GetAnimeCharacters(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			ok(c, 200, "anime data temporarily unavailable", []jikan.AnimeCharacter{})
			return
		}
		fail(c, err)
		return
	}
	if characters == nil {
		characters = []jikan.AnimeCharacter{}
	}

	ok(c, 200, "", characters)
}

// getCharacter proxies one character lookup
func (s *Server) getCharacter(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		failWith(c, 400, "invalid character id")
		return
	}

	character, err := s.animeClient.GetCharacter(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 200, "", character)
}

// pathID parses the numeric :id path parameter
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidInput
	}
	return id, nil
}
