package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/game"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// MaturityHandler serves the crawl/walk/run assessment.
type MaturityHandler struct {
	game     *game.MaturityGame
	sessions *store.Store[game.MaturitySession]
}

func NewMaturityHandler(g *game.MaturityGame, sessions *store.Store[game.MaturitySession]) *MaturityHandler {
	return &MaturityHandler{game: g, sessions: sessions}
}

func (h *MaturityHandler) respond(c *gin.Context, status int, s game.MaturitySession) {
	c.JSON(status, models.MaturityResponse{
		Session:  s,
		Scenario: h.game.Current(s),
		Position: s.Index + 1,
		Total:    h.game.Len(),
	})
}

// CreateSession handles POST /api/v1/maturity
func (h *MaturityHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create(h.game.NewSession)
	h.respond(c, http.StatusCreated, s)
}

// GetSession handles GET /api/v1/maturity/:id
func (h *MaturityHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Analyze handles POST /api/v1/maturity/:id/analyze
func (h *MaturityHandler) Analyze(c *gin.Context) {
	var req models.MaturityRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.MaturitySession) (game.MaturitySession, error) {
		return h.game.Analyze(s, req.Stage, req.Challenges)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Next handles POST /api/v1/maturity/:id/next
func (h *MaturityHandler) Next(c *gin.Context) {
	h.move(c, h.game.Next)
}

// Prev handles POST /api/v1/maturity/:id/prev
func (h *MaturityHandler) Prev(c *gin.Context) {
	h.move(c, h.game.Prev)
}

// Reset handles POST /api/v1/maturity/:id/reset
func (h *MaturityHandler) Reset(c *gin.Context) {
	h.move(c, func(s game.MaturitySession) (game.MaturitySession, error) {
		return h.game.Reset(s), nil
	})
}

func (h *MaturityHandler) move(c *gin.Context, fn func(game.MaturitySession) (game.MaturitySession, error)) {
	s, err := h.sessions.Update(c.Param("id"), fn)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}
