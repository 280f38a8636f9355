package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) listHeroes(c *gin.Context) {
	heroes, err := s.repo.List(c.Request.Context())
	if err != nil {
		s.internalError(c, "list heroes", err)
		return
	}

	if name, ok := c.GetQuery("name"); ok {
		heroes = filterByName(heroes, name)
	}
	c.JSON(http.StatusOK, heroes)
}

// filterByName matches name as a case-insensitive pattern, falling back to a
// literal match when it does not compile.
func filterByName(heroes []domain.Hero, name string) []domain.Hero {
	re, err := regexp.Compile("(?i)" + name)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
	}

	out := make([]domain.Hero, 0, len(heroes))
	for _, h := range heroes {
		if re.MatchString(h.Name) {
			out = append(out, h)
		}
	}
	return out
}

func (s *Server) getHero(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	hero, err := s.repo.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		notFound(c, id)
		return
	}
	if err != nil {
		s.internalError(c, "get hero", err)
		return
	}
	c.JSON(http.StatusOK, hero)
}

// createHero assigns an id when the body has none; a body id replaces or
// inserts that hero.
func (s *Server) createHero(c *gin.Context) {
	var hero domain.Hero
	if err := c.ShouldBindJSON(&hero); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid hero body: %v", err)})
		return
	}

	ctx := c.Request.Context()
	if hero.ID == 0 {
		created, err := s.repo.Create(ctx, hero.Name)
		if err != nil {
			s.internalError(c, "create hero", err)
			return
		}
		c.JSON(http.StatusCreated, created)
		return
	}

	created, err := s.repo.Put(ctx, hero)
	if err != nil {
		s.internalError(c, "put hero", err)
		return
	}
	if !created {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, hero)
}

func (s *Server) updateHero(c *gin.Context) {
	var hero domain.Hero
	if err := c.ShouldBindJSON(&hero); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid hero body: %v", err)})
		return
	}
	if hero.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Missing 'id' field"})
		return
	}
	if c.Param("id") != "" {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if id != hero.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request id does not match item.id"})
			return
		}
	}

	err := s.repo.Update(c.Request.Context(), hero)
	if errors.Is(err, ErrNotFound) {
		notFound(c, hero.ID)
		return
	}
	if err != nil {
		s.internalError(c, "update hero", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteHero answers 204 whether or not the hero existed.
func (s *Server) deleteHero(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.internalError(c, "delete hero", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid hero id %q", raw)})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, id int) {
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Hero with id=%d not found", id)})
}

func (s *Server) internalError(c *gin.Context, action string, err error) {
	s.log.ErrorObj("mock api request failed", "mock_api_error", map[string]any{
		"action": action,
		"error":  err.Error(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
